package eventful

import (
	"net/http"
	"slices"
	"strings"
)

// Method describes one remote procedure: where it lives, which parameters it
// takes and how it is sent. Required parameters are always transmitted;
// optional ones only when given a non-empty value.
type Method struct {
	Path     string
	Required []string
	Optional []string
	// OneOf lists groups of optional parameters of which at least one must be set.
	OneOf      [][]string
	HTTPMethod string
	Doc        string
}

// Name returns the method path without its leading slash, e.g. "events/get".
func (m Method) Name() string {
	return strings.TrimPrefix(m.Path, "/")
}

// Verb returns the HTTP method the call is sent with
func (m Method) Verb() string {
	if m.HTTPMethod == "" {
		return http.MethodGet
	}
	return m.HTTPMethod
}

// Accepts reports whether name is a declared parameter of m
func (m Method) Accepts(name string) bool {
	return slices.Contains(m.Required, name) || slices.Contains(m.Optional, name)
}

var (
	eventFields     = []string{"title", "start_time", "stop_time", "tz_olson_path", "all_day", "description", "privacy", "tags", "free", "price", "venue_id", "parent_id"}
	venueFields     = []string{"name", "address", "city", "region", "postal_code", "country", "description", "privacy", "venue_type", "url", "url_type", "parent_id"}
	performerFields = []string{"name", "short_bio", "long_bio", "tags", "privacy", "is_human"}
	calendarFields  = []string{"calendar_name", "description", "tags", "privacy", "notify_schedule", "where_query", "what_query"}
	groupFields     = []string{"name", "description", "tags", "privacy", "url"}
	pageFields      = []string{"page_size", "page_number"}
)

// Methods is the table of remote procedures the client knows about.
var Methods = []Method{
	// Calendars
	{Path: "/calendars/new", Required: []string{"calendar_name"}, Optional: calendarFields[1:], Doc: "Create a new calendar."},
	{Path: "/calendars/get", Required: []string{"id"}, Doc: "Get a calendar record."},
	{Path: "/calendars/modify", Required: []string{"id"}, Optional: calendarFields, Doc: "Modify a calendar."},
	{Path: "/calendars/delete", Required: []string{"id"}, Doc: "Delete a calendar."},
	{Path: "/calendars/list", Doc: "List the calendars of the logged in user."},
	{Path: "/calendars/search", Optional: append([]string{"keywords"}, pageFields...), Doc: "Search for calendars."},
	{Path: "/calendars/events/add", Required: []string{"id", "event_id"}, Doc: "Add an event to a calendar."},
	{Path: "/calendars/events/remove", Required: []string{"id", "event_id"}, Doc: "Remove an event from a calendar."},

	// Events
	{Path: "/events/new", Required: []string{"title", "start_time"}, Optional: eventFields[2:], Doc: "Add a new event record."},
	{Path: "/events/get", Required: []string{"id"}, Optional: []string{"image_sizes"}, Doc: "Get an event record."},
	{Path: "/events/modify", Required: []string{"id"}, Optional: eventFields, Doc: "Modify an event record."},
	{Path: "/events/withdraw", Required: []string{"id"}, Optional: []string{"note"}, Doc: "Withdraw (delete) an event."},
	{Path: "/events/restore", Required: []string{"id"}, Doc: "Restore a withdrawn event."},
	{Path: "/events/search", Optional: []string{"keywords", "location", "date", "category", "ex_category", "within", "units", "count_only", "sort_order", "sort_direction", "page_size", "page_number", "image_sizes", "languages", "mature", "include", "change_multi_day_start"}, Doc: "Search for events."},
	{Path: "/events/reindex", Required: []string{"id"}, Doc: "Update the search index for an event."},
	{Path: "/events/ical", Optional: []string{"keywords", "location", "date", "category", "within", "units"}, Doc: "Search for events and return an iCalendar feed."},
	{Path: "/events/rss", Optional: []string{"keywords", "location", "date", "category", "within", "units"}, Doc: "Search for events and return an RSS feed."},
	{Path: "/events/tags/list", Required: []string{"id"}, Doc: "List the tags of an event."},
	{Path: "/events/tags/new", Required: []string{"id", "tags"}, Doc: "Add tags to an event."},
	{Path: "/events/tags/remove", Required: []string{"id", "tags"}, Doc: "Remove tags from an event."},
	{Path: "/events/comments/new", Required: []string{"id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Add a comment to an event."},
	{Path: "/events/comments/modify", Required: []string{"comment_id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Modify an event comment."},
	{Path: "/events/comments/delete", Required: []string{"comment_id"}, Doc: "Delete an event comment."},
	{Path: "/events/links/new", Required: []string{"id", "link", "link_type_id"}, Optional: []string{"description"}, Doc: "Add a link to an event."},
	{Path: "/events/links/delete", Required: []string{"id", "link_id"}, Doc: "Remove a link from an event."},
	{Path: "/events/images/add", Required: []string{"id", "image_id"}, Doc: "Attach an image to an event."},
	{Path: "/events/images/remove", Required: []string{"id", "image_id"}, Doc: "Detach an image from an event."},
	{Path: "/events/performers/add", Required: []string{"id", "performer_id"}, Doc: "Add a performer to an event."},
	{Path: "/events/performers/remove", Required: []string{"id", "performer_id"}, Doc: "Remove a performer from an event."},
	{Path: "/events/properties/add", Required: []string{"id", "name", "value"}, Doc: "Add a property to an event."},
	{Path: "/events/properties/list", Required: []string{"id"}, Doc: "List the properties of an event."},
	{Path: "/events/properties/remove", Required: []string{"id"}, Optional: []string{"property_id", "name"}, OneOf: [][]string{{"property_id", "name"}}, Doc: "Remove a property from an event, by property_id or name."},
	{Path: "/events/categories/add", Required: []string{"id", "category_id"}, Doc: "Add an event to a category."},
	{Path: "/events/categories/remove", Required: []string{"id", "category_id"}, Doc: "Remove an event from a category."},
	{Path: "/events/going/list", Required: []string{"id"}, Doc: "List the users going to an event."},

	// Venues
	{Path: "/venues/new", Required: []string{"name"}, Optional: venueFields[1:], Doc: "Add a new venue record."},
	{Path: "/venues/get", Required: []string{"id"}, Optional: []string{"image_sizes"}, Doc: "Get a venue record."},
	{Path: "/venues/modify", Required: []string{"id"}, Optional: venueFields, Doc: "Modify a venue record."},
	{Path: "/venues/withdraw", Required: []string{"id"}, Optional: []string{"note"}, Doc: "Withdraw (delete) a venue."},
	{Path: "/venues/restore", Required: []string{"id"}, Doc: "Restore a withdrawn venue."},
	{Path: "/venues/search", Optional: []string{"keywords", "location", "within", "units", "count_only", "sort_order", "sort_direction", "page_size", "page_number"}, Doc: "Search for venues."},
	{Path: "/venues/resolve", Required: []string{"location"}, Doc: "Resolve a location string to venues."},
	{Path: "/venues/tags/list", Required: []string{"id"}, Doc: "List the tags of a venue."},
	{Path: "/venues/tags/new", Required: []string{"id", "tags"}, Doc: "Add tags to a venue."},
	{Path: "/venues/tags/remove", Required: []string{"id", "tags"}, Doc: "Remove tags from a venue."},
	{Path: "/venues/comments/new", Required: []string{"id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Add a comment to a venue."},
	{Path: "/venues/comments/modify", Required: []string{"comment_id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Modify a venue comment."},
	{Path: "/venues/comments/delete", Required: []string{"comment_id"}, Doc: "Delete a venue comment."},
	{Path: "/venues/links/new", Required: []string{"id", "link", "link_type_id"}, Optional: []string{"description"}, Doc: "Add a link to a venue."},
	{Path: "/venues/links/delete", Required: []string{"id", "link_id"}, Doc: "Remove a link from a venue."},
	{Path: "/venues/images/add", Required: []string{"id", "image_id"}, Doc: "Attach an image to a venue."},
	{Path: "/venues/images/remove", Required: []string{"id", "image_id"}, Doc: "Detach an image from a venue."},
	{Path: "/venues/properties/add", Required: []string{"id", "name", "value"}, Doc: "Add a property to a venue."},
	{Path: "/venues/properties/list", Required: []string{"id"}, Doc: "List the properties of a venue."},
	{Path: "/venues/properties/remove", Required: []string{"id"}, Optional: []string{"property_id", "name"}, OneOf: [][]string{{"property_id", "name"}}, Doc: "Remove a property from a venue, by property_id or name."},

	// Performers
	{Path: "/performers/new", Required: []string{"name", "short_bio"}, Optional: performerFields[2:], Doc: "Add a new performer record."},
	{Path: "/performers/get", Required: []string{"id"}, Optional: []string{"show_events", "image_sizes"}, Doc: "Get a performer record."},
	{Path: "/performers/modify", Required: []string{"id"}, Optional: performerFields, Doc: "Modify a performer record."},
	{Path: "/performers/withdraw", Required: []string{"id"}, Optional: []string{"note"}, Doc: "Withdraw (delete) a performer."},
	{Path: "/performers/restore", Required: []string{"id"}, Doc: "Restore a withdrawn performer."},
	{Path: "/performers/search", Optional: []string{"keywords", "sort_order", "sort_direction", "page_size", "page_number"}, Doc: "Search for performers."},
	{Path: "/performers/events/list", Required: []string{"id"}, Optional: []string{"page_size", "page_number", "show_past"}, Doc: "List the events of a performer."},
	{Path: "/performers/tags/list", Required: []string{"id"}, Doc: "List the tags of a performer."},
	{Path: "/performers/tags/new", Required: []string{"id", "tags"}, Doc: "Add tags to a performer."},
	{Path: "/performers/tags/remove", Required: []string{"id", "tags"}, Doc: "Remove tags from a performer."},
	{Path: "/performers/comments/new", Required: []string{"id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Add a comment to a performer."},
	{Path: "/performers/comments/modify", Required: []string{"comment_id", "comment"}, HTTPMethod: http.MethodPost, Doc: "Modify a performer comment."},
	{Path: "/performers/comments/delete", Required: []string{"comment_id"}, Doc: "Delete a performer comment."},
	{Path: "/performers/links/new", Required: []string{"id", "link", "link_type_id"}, Optional: []string{"description"}, Doc: "Add a link to a performer."},
	{Path: "/performers/links/delete", Required: []string{"id", "link_id"}, Doc: "Remove a link from a performer."},
	{Path: "/performers/images/add", Required: []string{"id", "image_id"}, Doc: "Attach an image to a performer."},
	{Path: "/performers/images/remove", Required: []string{"id", "image_id"}, Doc: "Detach an image from a performer."},
	{Path: "/performers/properties/add", Required: []string{"id", "name", "value"}, Doc: "Add a property to a performer."},
	{Path: "/performers/properties/list", Required: []string{"id"}, Doc: "List the properties of a performer."},
	{Path: "/performers/properties/remove", Required: []string{"id"}, Optional: []string{"property_id", "name"}, OneOf: [][]string{{"property_id", "name"}}, Doc: "Remove a property from a performer, by property_id or name."},

	// Users
	{Path: "/users/login", Required: []string{"user"}, Optional: []string{"nonce", "response"}, Doc: "Log in. Without nonce/response the server replies with a challenge."},
	{Path: "/users/get", Required: []string{"id"}, Doc: "Get a user record."},
	{Path: "/users/search", Optional: []string{"keywords", "location", "page_size", "page_number"}, Doc: "Search for users."},
	{Path: "/users/locales/add", Required: []string{"location"}, Doc: "Add a locale to the logged in user."},
	{Path: "/users/locales/delete", Required: []string{"location"}, Doc: "Remove a locale from the logged in user."},
	{Path: "/users/venues/get", Required: []string{"id"}, Doc: "List the venues a user has added."},
	{Path: "/users/events/recent", Required: []string{"id"}, Optional: pageFields, Doc: "List the events a user recently added."},
	{Path: "/users/performers/list", Required: []string{"id"}, Optional: pageFields, Doc: "List the performers a user is tracking."},
	{Path: "/users/groups/list", Required: []string{"id"}, Doc: "List the groups a user belongs to."},

	// Groups
	{Path: "/groups/new", Required: []string{"name"}, Optional: groupFields[1:], Doc: "Create a new group."},
	{Path: "/groups/get", Required: []string{"id"}, Doc: "Get a group record."},
	{Path: "/groups/modify", Required: []string{"id"}, Optional: groupFields, Doc: "Modify a group."},
	{Path: "/groups/delete", Required: []string{"id"}, Doc: "Delete a group."},
	{Path: "/groups/search", Optional: append([]string{"keywords"}, pageFields...), Doc: "Search for groups."},
	{Path: "/groups/events/list", Required: []string{"id"}, Optional: pageFields, Doc: "List the events of a group."},
	{Path: "/groups/events/add", Required: []string{"id", "event_id"}, Doc: "Add an event to a group."},
	{Path: "/groups/events/remove", Required: []string{"id", "event_id"}, Doc: "Remove an event from a group."},
	{Path: "/groups/users/list", Required: []string{"id"}, Optional: pageFields, Doc: "List the members of a group."},
	{Path: "/groups/users/add", Required: []string{"id", "user_id"}, Doc: "Add a user to a group."},
	{Path: "/groups/users/remove", Required: []string{"id", "user_id"}, Doc: "Remove a user from a group."},

	// Categories
	{Path: "/categories/list", Doc: "List the event categories."},
}

var methodIndex = func() map[string]Method {
	idx := make(map[string]Method, len(Methods))
	for _, m := range Methods {
		idx[m.Name()] = m
	}
	return idx
}()

// LookupMethod finds a method by name, with or without the leading slash.
func LookupMethod(name string) (Method, bool) {
	m, ok := methodIndex[strings.Trim(name, "/")]
	return m, ok
}

// Package eventful provides a client for the Eventful REST API.
//
// Eventful answers every call with an XML document. The client encodes the
// call's parameters into the query string, sends the request, parses the body
// into a generic Node tree and turns <error> documents into *APIError values.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := eventful.NewClient(appKey, logger,
//		eventful.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Optional: calls made after a login carry user and user_key
//	if err := client.Login(ctx, "alice", "secret"); err != nil {
//		log.Fatal(err)
//	}
//
//	doc, err := client.Call(ctx, "events/get", eventful.Args{"id": "E0-001-000218163-6"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	title, err := doc.Text("event", "title")
//
// Methods that are not in the Methods table can be reached with Invoke:
//
//	doc, err := client.Invoke(ctx, "/events/search",
//		eventful.NewParams().Add("keywords", "jazz").Add("page_size", 10))
//
// # Error Handling
//
// Three kinds of failure are reported:
//
//   - *TransportError: the HTTP exchange failed or returned a non-XML error status
//   - *APIError: the server answered with an <error> document
//   - *NotFoundError: an expected element is missing (errors.Is(err, ErrNotFound))
//
// Argument problems detected before sending are reported with
// ErrMissingParameter, ErrUnknownParameter and ErrUnknownMethod.
package eventful

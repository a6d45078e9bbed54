// Package blackd provides an HTTP client for the blackd formatting daemon.
//
// # Overview
//
// blackd is black's HTTP front end. A reformat is a single POST to the
// daemon's root URL: the request body is the raw source and the formatting
// options travel as headers. The daemon answers with a status code and either
// the reformatted source or a diagnostic.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: Client, the reformat call and the connection probe
//   - types.go: Request, Response, Connectivity and the header vocabulary
//
// # Client Usage
//
//	client, err := blackd.NewClient("localhost:45484")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	resp := client.Format(ctx, blackd.Request{
//		Source:  "x=1",
//		Options: blackd.Options{LineLength: 88},
//	})
//	// resp.StatusCode == 200, resp.Body == "x = 1\n"
//
//	probe := client.Check(ctx)
//	// probe.Reachable, probe.Detail == "24.3.0"
//
// # Wire Protocol
//
// Request headers:
//
//   - X-Protocol-Version: always "1"
//   - X-Fast-Or-Safe: "fast" or "safe"
//   - X-Line-Length: decimal line length
//   - X-Python-Variant: "pyi" for stub files, otherwise the target version
//     list verbatim; omitted when neither applies
//   - X-Skip-String-Normalization: "yes", only when requested
//
// Response status codes:
//
//   - 200: body is the new source
//   - 204: source already formatted
//   - 400: source could not be parsed
//   - 500: daemon internal error
//
// The probe posts an empty body with X-Protocol-Version and reads the
// X-Black-Version response header.
//
// # Failure Handling
//
// Format and Check never return errors. A failure to connect is reported as
// StatusConnectionFailed (-1) with the transport's reason as the body, a
// broken response stream keeps the status that was received along with the
// body bytes read so far, and a failed probe is Connectivity{Reachable: false}
// with a non-empty reason.
//
// # Known Limitations
//
// The client sets no timeout of its own and does not retry. Callers that need
// a deadline attach one to the context. Keep-alives are disabled, so every
// call dials a fresh connection.
package blackd

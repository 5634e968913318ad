// Package mockserver implements an HTTP test double for package download
// clients.
//
// The server speaks a deliberately small HTTP/1.1 subset over raw TCP or
// Unix-domain connections: one GET or HEAD exchange per connection, always
// ending with Connection: close. Requested paths resolve against a document
// root, and an ordered fault table can override the honest answer with one of
// several misbehaviors: answering 404 for a file that exists, declaring the
// true Content-Length but dropping the connection halfway through the body,
// or declaring and sending a consistently wrong half-length.
//
// The point of speaking the wire protocol directly, rather than going through
// net/http, is byte-level control: net/http refuses to produce the framing
// inconsistencies these faults consist of. Every exchange is also recorded in
// a request log that a surrounding test harness can assert on.
package mockserver

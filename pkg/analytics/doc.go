/*
Package analytics provides implementations of ports.AnalyticsSink.

Sinks compose: Multi fans an event out, Redact masks personal data in the
property bag before it reaches the next sink, and Nop or Log stand in for a
real tracker in development. Prometheus turns the event stream into metrics
(assessments started and completed, quote values per track) for a /metrics
endpoint.
*/
package analytics

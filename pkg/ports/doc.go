/*
Package ports defines the driven ports (interfaces) of the assessment engine.

These interfaces decouple the scoring and pricing core from external
implementations, so wizard sessions, captured leads and analytics events can go
to any backend without touching the engine.

# Key Interfaces

  - StateStore: persists and loads WizardState snapshots per session.
  - LeadStore: the persistence sink for submitted leads. Best-effort from the engine's view.
  - AnalyticsSink: accepts named events with a property bag.
  - DistributedLocker: coordinates concurrent access to a session across replicas.

The Run*Contract helpers are reusable test suites every adapter runs against
its implementation.
*/
package ports

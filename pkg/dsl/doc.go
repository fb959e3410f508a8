/*
Package dsl provides a fluent Go API for building assessment catalogs.

It is the programmatic alternative to a YAML catalog file, useful for tests
and for catalogs generated from another system. Build validates the result
exactly like catalog.Load does.

Example usage:

	b := dsl.New().Currency("€").MinTeamSize(8)

	b.Single(1, "Who will attend the training?").
		Option("developers", "Software developers", 3, domain.AffinityFor(domain.TrackEngineer)).
		Option("analysts", "Analysts", 3, domain.AffinityFor(domain.TrackData))

	b.Multi(2, "Which languages do you use?").
		VisibleWhen(1, "developers").
		Option("python", "Python", 2, domain.AffinityFor(domain.TrackData)).
		Option("go", "Go", 2, domain.AffinityFor(domain.TrackEngineer))

	b.Delivery(3, "How would you like the training delivered?")
	b.Contact(4, "Where should we send your proposal?")

	b.Track(domain.TrackEngineer, "AI Engineering").
		Workshops("LLM APIs", "Agents").
		Price(domain.DeliveryRemote, domain.Units(45000), domain.Units(5500), 0)
	// ... every track, every delivery mode

	cat, err := b.Build()
*/
package dsl

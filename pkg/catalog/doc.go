/*
Package catalog holds the static reference data of the assessment: the ordered
question list with its scoring options and visibility conditions, and the
training tracks with their per-delivery-mode pricing tables.

Use Default for the built-in catalog or Load to read a YAML/JSON document. Both
are validated before use: visibility conditions may only reference earlier
choice questions, every track prices every delivery mode, and travel is priced
as a separate surcharge (at-their-office base equals at-our-location base).
*/
package catalog

// Package domain models lightning strike feeds and the asset registry they
// are matched against.
//
// # Data Source
//
// Strike records come from a lightning detection network feed, one JSON
// object per line (or per Kafka message in stream mode):
//
//	{"flashType":1,"strikeTime":1386285909025,"latitude":33.5524951,"longitude":-94.5822016,"peakAmps":3034}
//
// Only latitude, longitude and flashType take part in matching. strikeTime
// and peakAmps are carried through to structured alerts when present.
//
// # Flash Types
//
//	0  cloud-to-ground strike
//	1  cloud-to-cloud strike
//	9  heartbeat: a sensor status signal, not a strike
//
// Any other code is accepted and ignored.
//
// # Asset Registry
//
// Assets are registered at a fixed quadkey (see package quadkey), e.g.
//
//	{"assetName":"Dante Street","quadKey":"023113203031","assetOwner":"6720"}
//
// A strike matches an asset when the strike's quadkey at the configured zoom
// equals the asset's key exactly. Assets registered at a different zoom can
// never match and are reported when the index is built.
//
// # Alerting Rules
//
// Lightning alerts are deduplicated per quadkey for the lifetime of a run:
// the first strike on an asset's tile alerts, later strikes on the same tile
// are suppressed. Heartbeats are never deduplicated. See [Matcher].
package domain

// Package deliverycode contains the delivery code aggregate: the
// short secret a recipient presents to complete a handover.
//
// Codes are generated from a reduced alphabet with crypto/rand, expire
// on a fixed TTL and lock after a bounded number of wrong entries.
// Every lifecycle step has a named audit Event.
package deliverycode

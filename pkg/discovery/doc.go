// Package discovery locates CEC bridges on the local network via
// mDNS/DNS-SD.
//
// A bridge advertises itself under the service type "_cec-bridge._tcp"
// with TXT records describing its protocol version, name and the
// physical address of the HDMI port it sits behind. Controllers browse
// for these advertisements and pick a bridge to connect to.
//
// Browsing aggregates announcements by instance name: a bridge visible
// on several interfaces is emitted once, with all its addresses
// merged. When an interface announcement goes away its addresses are
// dropped from the aggregate.
package discovery

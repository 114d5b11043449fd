// Package session owns the client-side authentication lifecycle for the
// SteamBuds portal: token persistence, expiry detection, refresh-on-demand,
// user-record caching, and the role-based default route.
//
// The Manager is the single source of truth for "is there a usable,
// authenticated identity right now" and the only component that reads or
// writes the persisted credential store. It talks to the auth service through
// the API interface and persists through the Store interface, so both can be
// substituted in tests.
//
// Access tokens are decoded but never verified here. Trust boundary
// enforcement is the auth service's job; the client reads only the expiry and
// user id claims, to decide when to refresh and which user record to fetch,
// never for authorization decisions.
package session

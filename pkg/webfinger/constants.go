package webfinger

// Mastodon-related WebFinger constants

// WellKnownPath is the path of the WebFinger endpoint
const WellKnownPath = "/.well-known/webfinger"

// ContentTypeJRD is the media type of WebFinger responses
const ContentTypeJRD = "application/jrd+json"

// RelProfilePage is the link relation pointing at the human-readable profile
const RelProfilePage = "http://webfinger.net/rel/profile-page"

// RelSelf is the link relation pointing at the ActivityPub actor document
const RelSelf = "self"

// TypeActivityJSON is the media type of ActivityPub actor documents
const TypeActivityJSON = "application/activity+json"

// MaxResponseSize caps how much of a WebFinger response body is read
const MaxResponseSize = 1 << 20

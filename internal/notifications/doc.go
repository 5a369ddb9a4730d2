// Package notifications delivers authentication events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The Service methods cover the authentication milestones so flow
// code can emit consistent, user-friendly messages without duplicating HTTP
// glue. The ntfy backend also carries reset codes, so it satisfies the
// otp.Sender interface out of the box.
//
// Extend this package if you need alternative transports; all flow code
// depends only on the simple Service interface.
package notifications

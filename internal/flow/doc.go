// Package flow drives the signup, login, and reset authentication flows.
//
// The Manager is the single place that decides user-visible outcomes. It
// composes feature extraction, template building, voice matching, the phrase
// vault, and the credential store, applies the retry and lockout policy, and
// triggers intruder capture when a login exhausts its attempt budget. Only
// login retries; signup and reset abort on the first failure so no partial
// credentials are ever persisted.
//
// One flow runs at a time per Manager. A second concurrent call fails fast
// with a busy error instead of contending for the microphone.
package flow

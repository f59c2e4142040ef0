// Package profile loads environment profiles written in CUE.
//
// A profile pairs a user agent with a recorded capability table, so the
// classifiers can run for an engine without launching it. The built-in
// profiles are embedded; additional profiles are loaded from a directory of
// .cue files and validated against the same #Profile schema:
//
//	package profiles
//
//	profile: "firefox-esr": {
//		user_agent: "Mozilla/5.0 (X11; Linux x86_64; rv:115.0) Gecko/20100101 Firefox/115.0"
//		capabilities: {
//			focusAudioWithoutControls: true
//		}
//	}
//
// Capabilities default to false; the schema is closed, so misspelled
// capability names are rejected.
package profile

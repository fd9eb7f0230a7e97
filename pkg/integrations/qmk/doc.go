// Package qmk fetches keyboard.json documents from the QMK firmware
// repository.
//
// A keyboard is named by its directory under keyboards/, for example
// "handwired/dactyl_manuform/4x5". [Client.URL] templates it into
//
//	{base}/{branch}/keyboards/{path}/keyboard.json
//
// with each path segment percent-escaped. The default base is the raw
// GitHub content host and the default branch is master.
//
// Responses are cached under the "qmk" namespace of the configured
// [cache.Cache]. Transport failures and 5xx responses are retried with
// exponential backoff; 404 responses are reported as NOT_FOUND at once.
package qmk

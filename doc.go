// Package geomaps is a vendor-agnostic client SDK for location services:
// geocoding, reverse geocoding, address autocompletion, distance matrices,
// and point-to-point routing.
//
// Applications program against the Provider interface and the canonical
// types in this package. Vendor-specific wire formats, authentication, and
// endpoint layouts live in adapter packages such as geoapify; swapping
// vendors means swapping the adapter, nothing else.
//
// The usual entry point is the Client facade:
//
//	provider, err := geoapify.New(geoapify.Config{APIKey: key})
//	if err != nil {
//		return err
//	}
//	client, err := geomaps.NewClient(provider)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	results, err := client.Geocode(ctx, "invalidenstrasse 117 berlin")
//
// For short-lived use, With scopes the provider's lifetime to a callback
// and releases it on every exit path.
//
// All failures surface through the error taxonomy in this package:
// ValidationError, AuthenticationError, RateLimitError, APIError, and
// NoRouteError all satisfy the Error marker interface and are matched
// with errors.As. Validation failures are raised before any network I/O.
//
// Client and every conforming Provider are safe for concurrent use. The
// SDK spawns no background goroutines; every operation runs synchronously
// on the caller's goroutine and honors context cancellation.
package geomaps

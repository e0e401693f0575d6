// Package recraft is the client for the remote image API.
//
// Every call performs exactly one outbound request and brackets it with a
// progress coordinator: the coordinator starts before the request is sent
// and is stopped before the call returns, whether the request succeeded,
// returned a non-2xx status, failed in transport or failed unexpectedly.
//
// # Usage
//
//	client := recraft.New(recraft.Options{
//	    Tokens:  ensurer,
//	    Display: os.Stdout,
//	})
//
//	res, err := client.Generate(ctx, "a red fox", "digital_illustration", recraft.CallOptions{
//	    Timeout: time.Minute,
//	})
//	// res.URL or res.Payload
//
// # Errors
//
// Failures are reported with the domain error types: *domain.ValidationError
// (bad style, no request sent), *domain.HTTPStatusError, *domain.TransportError
// and *domain.UnexpectedError. An unknown upscale mode returns
// domain.ErrInvalidMode.
package recraft

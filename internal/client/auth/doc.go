// Package auth provides the authentication collaborator of the Genio client.
//
// An Authenticator exposes sign-in, sign-out and two observable flags:
// IsSignedIn and IsDemoMode. Demo mode means the configured credentials are
// absent or still carry template placeholders; every storage call is then
// fulfilled by the simulated gateway.
//
// Implementations:
//
//   - Local: session flag only. NewDemo returns one that always reports demo
//     mode; NewLocal one for backends with static credentials (webhook,
//     object storage).
//   - Google: OAuth2 consent for the Drive backend. The consent URL is
//     printed and the pasted authorization code is read without echo.
//     SignOut revokes the token with Google and forgets it. Google also
//     serves an oauth2.TokenSource to the Drive gateway.
package auth

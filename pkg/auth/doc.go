// Package auth decides, for every inbound request, whether authentication
// is required and who the caller is.
//
// A Provider implements one authentication strategy (none, HTTP Basic,
// or one of the session variants). Exactly one provider is selected from
// configuration at startup and installed with Middleware, which runs
// before every gated handler:
//
//  1. paths matching the excluded list pass through untouched;
//  2. requests carrying neither an Authorization header nor a session
//     cookie are rejected with 401;
//  3. requests whose credentials do not resolve to a user are rejected
//     with 403;
//  4. otherwise the user is stored in the request context (see
//     UserFromContext) and the handler runs.
//
// Providers never return errors: a missing or malformed credential is
// simply "no user".
package auth

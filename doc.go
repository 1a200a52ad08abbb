// Package chat implements a small chat API: user accounts, named chats with
// memberships, and immutable messages, fronted by a Fiber HTTP surface.
//
// Identity:
//   - Registration hashes passwords with bcrypt and enforces unique usernames
//     and emails inside a single transaction. Profile updates run the same
//     uniqueness checks while excluding the subject, so resubmitting current
//     values never conflicts.
//   - Auther exchanges verified credentials for an HS256 bearer token. Failed
//     lookups and wrong passwords produce the same error, and repeated
//     failures trip a cooldown before another attempt is accepted.
//
// Persistence:
//   - Repositories are built on go-repository-bun over Bun models. The
//     RepositoryManager bundles them with transaction support; command
//     handlers (RegisterUserHandler, UpdateProfileHandler, PostMessageHandler)
//     run their writes through RunInTx.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter fed by the user provider on
//     login success and failure. Sinks run best-effort (errors are logged) so
//     you can forward events without blocking authentication.
package chat

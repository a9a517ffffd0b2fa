// Package userservice owns the accounts of the facility leadership: the
// facility head (kepala rutan) and the section heads (kepala seksi).
//
// Layering:
// - domain: user entity, roles, profile rules, errors
// - application: commands/queries gated on the calling actor's role
// - ports: persistence, password hashing, clock and id boundaries
// - adapters: postgres (gorm), memory, bcrypt, and HTTP handler
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - The agenda context reads contacts through its own UserDirectory port;
//   it never imports this module.
package userservice

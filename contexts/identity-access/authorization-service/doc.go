// Package authorization implements the marketplace policy engine.
//
// Layering:
// - domain: decision entity, reasons, invariants
// - application: the Decide query over explicit ports
// - ports: action catalog plus role lookup/cache boundaries
// - adapters: in-memory store and redis role cache
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Policy evaluation is read-only; role mutations live in identity-service.
// - Rule classes evaluate in precedence order: public, self, admin,
//   owner-or-admin. Lookup failures deny closed.
package authorization

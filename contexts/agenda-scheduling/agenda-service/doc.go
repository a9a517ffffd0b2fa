// Package agendaservice tracks agenda items proposed to the facility head
// and the head's decision on each of them: attend, decline, or delegate
// attendance to a section head.
//
// Layering:
// - domain: agenda and response entities, status rules, partitioning
// - application: role-gated commands and queries
// - ports: persistence, user directory, notifier and attachment storage
// - adapters: postgres (gorm), memory, whatsapp gateway, local storage, HTTP handler
// - transport: module-private DTOs for HTTP contracts
//
// Notifications are sent after the write commits. A failed send is logged
// and never fails the request.
package agendaservice

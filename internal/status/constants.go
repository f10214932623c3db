// internal/status/constants.go
package status

// Status cell layout. These dot patterns define what the auxiliary
// cells show and MUST NOT be configurable.

// ---- CELL INDICES ----

// CellHealth shows the connection/health indicator.
const CellHealth = 0

// CellRow shows the row position indicator.
const CellRow = 1

// CellCursor shows the cursor-presence marker.
const CellCursor = 2

// ---- HEALTH PATTERNS ----

// HealthBlank: no session state worth showing.
const HealthBlank byte = 0x00

// HealthOK: dots 1-2-4-5, a solid upper block.
const HealthOK byte = 0x1B

// HealthWaiting: dot 4 only, a quiet tick while reconnecting.
const HealthWaiting byte = 0x08

// HealthError: all six classic dots raised.
const HealthError byte = 0x3F

// ---- MARKERS ----

// CursorMarker: dots 7-8, the underline pair.
const CursorMarker byte = 0xC0

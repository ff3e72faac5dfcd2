// Package htmltable locates and decodes data tables in portal pages.
//
// The portal renders several visually identical tables per page; the right
// one is found by matching the header-row cell texts against a required token
// set, not by position or CSS alone. Body rows carry no column names, so
// decoding is positional and each caller declares its own column mapping.
// Identifiers (league ids, schedule ids) are embedded in hyperlink targets
// rather than cell text and are extracted as query parameters.
package htmltable

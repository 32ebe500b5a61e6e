// Package instantmarqo indexes structured web data into a Marqo search
// index. Pages are extracted with the InstantAPI retrieve endpoint using a
// caller-supplied response structure, turned into flat Marqo documents
// (optionally combining text and image fields), and searched through the
// Marqo REST API.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, marqo/, instantapi/).
package instantmarqo

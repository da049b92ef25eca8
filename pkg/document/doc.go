// Package document provides GraphDocument, the live, mutable form of a graph
// document used by an editor.
//
// A [GraphDocument] wraps a defaulted [graphdata.Document] and materializes
// its nodes and links into an object graph. Each [Link] points at its
// endpoint [Node] values directly, so a layout simulation can move nodes in
// place between saves.
//
// # Two Representations
//
// The serializable document and the live nodes are separate values. They
// are synchronized in exactly one place: saving (and therefore [GraphDocument.Clone]
// and [GraphDocument.Merge]) copies the live position and lock state back
// into the serializable nodes before anything else happens.
//
// # Lifecycle
//
//	doc, err := document.Load(data, "my graph")   // validate + default + build
//	doc.Nodes[0].X = &x                           // simulation moves a node
//	merged, err := doc.Merge(imported)            // new document, doc untouched
//	out, err := merged.Save()                     // pretty JSON
//
// # Search
//
// [GraphDocument.NodeSearchHelper] builds a fuzzy label index on first use
// and keeps it for the lifetime of the GraphDocument. Replacing the node set
// means building a new GraphDocument, which starts without an index.
//
// # Concurrency
//
// A GraphDocument is not safe for concurrent use. Use Clone to hand an
// independent copy to another goroutine.
package document

// Command entitymaker builds immutable entity snapshots from field documents,
// RSS/Atom feeds, or YAML schema catalogs.
//
// Usage:
//
//	entitymaker schema [entity]
//	entitymaker build <entity> <record.yaml>
//	entitymaker watch <entity> <record.yaml>
//	entitymaker feed <feed.xml|url>
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package io provides JSON import and export for dependency maps.
//
// # Overview
//
// A built [deps.Map] can be saved and re-loaded so that clustering and
// rendering run without walking the source tree again. Two encodings are
// supported.
//
// # Document Format
//
// [WriteJSON] and [ReadJSON] use a lossless document that keeps map order,
// absolute paths, abstraction folders and unmatched files:
//
//	{
//	  "nodes": [
//	    {"key": "main.js", "fullPath": "/src/main.js", "dependencies": ["app/foo.js"]},
//	    {"key": "app/foo.js", "fullPath": "/src/app/foo.js"},
//	    {"key": "vendor", "fullPath": "/src/vendor", "folder": true}
//	  ],
//	  "unmatched": ["styles.css"]
//	}
//
// Nodes are listed in map insertion order and dependencies in their own
// insertion order, so a round trip reproduces the same cluster tree.
//
// # Dependency Object
//
// [WriteDependencies] writes the compact form served by the HTTP API: one
// object member per key, in map order, holding its dependency list.
//
//	{
//	  "main.js": ["app/foo.js"],
//	  "app/foo.js": []
//	}
//
// This form drops full paths and folder flags and is not meant to be read
// back.
package io

// Package mermaid renders dependency maps as Mermaid flowcharts.
//
// The output is a fenced code block that Markdown hosts such as GitHub render
// inline:
//
//	```mermaid
//	flowchart LR
//	  subgraph cluster_app_["app"]
//	    direction LR
//
//	    app_foo_js{{"foo.js"}}
//	    style app_foo_js fill:transparent,stroke:#f0db4f,color:#f0db4f,stroke-width:2px
//	  end
//	  ...
//	```
//
// Mermaid identifiers cannot contain path separators or dots, so every file
// key and cluster id is mapped to a sanitized token. The mapping is stable
// within one render and collision free: a second key sanitizing to the same
// token gets a numeric suffix.
package mermaid

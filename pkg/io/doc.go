// Package io reads offering files and writes availability reports.
//
// # Offering Files
//
// Offerings are written in TOML or JSON; [ImportOfferings] picks the decoder
// from the file extension. Layers are written "id:version".
//
// TOML:
//
//	[[offering]]
//	publisher = "navigation"
//
//	[[offering.dependency]]
//	layer = "1:2"
//	depends_on = ["3:4", "5:6"]
//
//	[[offering.dependency]]
//	layer = "5:6"
//
// JSON:
//
//	{
//	  "offerings": [
//	    {
//	      "publisher": "navigation",
//	      "dependencies": [
//	        {"layer": "1:2", "depends_on": ["3:4", "5:6"]},
//	        {"layer": "5:6"}
//	      ]
//	    }
//	  ]
//	}
//
// Every decoded offering is validated. A dependency without a layer, or any
// malformed or negative layer, fails the whole file with a coded error that
// names the offending offering and dependency.
//
// # Reports
//
// [WriteReport] encodes an [availability.Result] as indented JSON with
// "available", "unavailable", "missing" and "passes" fields.
package io

// Package hcl loads node trees and modifier settings from HCL files.
//
// A tree may be split across any number of files. Each file can declare
// `node`, `link`, `group_input_slot` and `settings` blocks and an optional
// top-level `name`; all files are merged before links are resolved, so a
// link may refer to a node declared in another file.
//
//	name = "scatter"
//
//	node "in" {
//	  type = "NodeGroupInput"
//	  output "Geometry" { type = geometry }
//	  output "Scale" {
//	    type    = float
//	    default = 1.0
//	  }
//	}
//
//	node "scale" {
//	  type   = "Scale"
//	  inputs = { Scale = 2.0 }
//	}
//
//	link {
//	  from = "in.Geometry"
//	  to   = "scale.Geometry"
//	}
//
//	settings {
//	  Scale = 3
//	}
package hcl

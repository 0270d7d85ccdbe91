// Package model implements the ARCommands command data model.
//
// # Command Hierarchy
//
// Commands are organized in a 3-level hierarchy:
//
//	Feature > Class > Command
//
// A Feature is a top-level namespace (historically a "project"). Features
// group related commands in Classes; a feature without sub-classes keeps its
// commands in the implicit class 0 (FeatureClass).
//
//	ardrone3 (1)
//	├── Piloting (0)
//	│   ├── FlatTrim (0)
//	│   └── TakeOff (1)
//	└── Animations (5)
//	    └── Flip (0)   direction: enum
//
// # Addressing
//
// A command is addressed by its Identity, the tuple:
//
//	(FeatureID u8, ClassID u8, CommandID u16)
//
// Identities never change between protocol versions. Feature ids are unique
// globally, class ids within their feature and command ids within their class.
//
// # Arguments
//
// Every command has an ordered, fixed argument list. Decoded argument values
// are carried as []any using the Go type documented on ArgType.GoType.
//
// # Multisetting
//
// A multisetting argument bundles optional sub-commands. Each sub-command is a
// Slot in a Multisetting aggregate with an explicit IsSet flag.
package model

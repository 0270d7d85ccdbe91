// Package examples provides a reference command schema demonstrating how to
// describe features, classes, enums, bitfields and multisettings.
//
// The demo schema is embedded in the package and used by the codec, filter
// and arcmd tests, and as the arcmd schema when no schema file is given:
//   - common: a feature with named classes (Common, Settings)
//   - camera: a class-less feature covering every argument type
//   - ardrone3: a piloting feature with classes and an enum argument
//
// It can serve as a template for writing real schema files.
package examples

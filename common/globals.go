package common

// PlccVersion is the current plcc version as a string.
const PlccVersion string = "0.1.0"

// ProjectFileName is the name of plcc project files.
const ProjectFileName string = "plcc.toml"

// ManifestFileExt is the file extension of a type declaration manifest.
const ManifestFileExt string = ".types.toml"

// DefaultTargetTriple is the target triple used when the project file does
// not specify one.
const DefaultTargetTriple string = "x86_64-pc-linux-gnu"

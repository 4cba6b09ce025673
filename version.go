package main

// Version is the bump CLI version. It is updated by bump itself on release.
var Version = "0.1.0"

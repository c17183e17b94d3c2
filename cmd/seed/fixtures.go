package main

import _ "embed"

//go:embed fixtures.yaml
var defaultFixtures []byte

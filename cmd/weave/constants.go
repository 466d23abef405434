package main

// Output format constants.
const (
	jsonFormat = "json"
	yamlFormat = "yaml"
	textFormat = "text"
)

// scriptExtension marks Lua scripts in the scripts directory.
const scriptExtension = ".lua"

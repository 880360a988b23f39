package output

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
	json "github.com/json-iterator/go"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var (
	Bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	info    = color.New(color.FgCyan)
	warning = color.New(color.FgYellow)
)

// GetFormat returns the configured output format
func GetFormat() Format {
	if config.GetString("output.format") == "json" {
		return FormatJSON
	}
	return FormatText
}

// ValidateFormat checks if format is valid
func ValidateFormat(format string) bool {
	return format == "json" || format == "text"
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	success.Printf(msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	failure.Printf("Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	info.Printf(msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	warning.Printf("Warning: "+msg+"\n", args...)
}

// Print renders data as indented JSON
func Print(data interface{}) error {
	out, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// PrintRecord prints key-value pairs, bold keys in text mode
func PrintRecord(record map[string]interface{}) error {
	if GetFormat() == FormatJSON {
		return Print(record)
	}
	for key, value := range record {
		Bold.Print(key + ": ")
		fmt.Printf("%v\n", value)
	}
	return nil
}

// FormatAsPrettyJSON converts data to an indented JSON string
func FormatAsPrettyJSON(data interface{}) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

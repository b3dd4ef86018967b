package model

import (
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwstringx "github.com/msto63/owsh/foundation/utils/stringx"
)

func parseError(format string, args ...interface{}) *mdwerror.Error {
	return mdwerror.Newf(format, args...).WithCode(mdwerror.CodeOWSParse)
}

// IsComment reports whether a raw argument is blank or a '#' comment
func IsComment(arg string) bool {
	arg = strings.TrimSpace(arg)
	return arg == "" || strings.HasPrefix(arg, "#")
}

// SplitLine removes all whitespace and a trailing '#' comment from data
// and splits the rest at the first sep. Key and value must be non-empty.
func SplitLine(sep rune, data string) (key, value string, err error) {
	line := mdwstringx.StripComment(mdwstringx.RemoveSpaces(data), "#")

	i := strings.IndexRune(line, sep)
	if i < 0 {
		return "", "", parseError("No separator '%c' found", sep)
	}

	key, value = line[:i], line[i+len(string(sep)):]
	if key == "" || value == "" {
		return "", "", parseError("Bad input data (key or value empty)")
	}
	return key, value, nil
}

// UpdateNode sets one field of node from a key=value pair
func UpdateNode(node *Node, key, value string) error {
	switch key {
	case "name":
		node.Name = value
	case "domain", "domain_name":
		node.Domain = value
	case "weight":
		w, err := parseInt(key, value)
		if err != nil {
			return err
		}
		node.Weight = w
	case "resources":
		resources, err := parseResources(value)
		if err != nil {
			return err
		}
		node.Resources = resources
	default:
		return parseError("Unknown node key %q", key)
	}
	return nil
}

// UpdateJob sets one field of job from a key=value pair
func UpdateJob(job *Job, key, value string) error {
	switch key {
	case "name":
		job.Name = value
	case "domain", "domain_name":
		job.Domain = value
	case "node", "node_name":
		job.NodeName = value
	case "cmd_line", "cmdline":
		job.CmdLine = value
	case "weight":
		w, err := parseInt(key, value)
		if err != nil {
			return err
		}
		job.Weight = w
	case "state":
		state, err := ParseJobState(value)
		if err != nil {
			return err
		}
		job.State = state
	case "start_time":
		d, err := ParseClock(value)
		if err != nil {
			return err
		}
		job.StartTime = d
	case "previous":
		job.Previous = splitList(value)
	case "next":
		job.Next = splitList(value)
	default:
		return parseError("Unknown job key %q", key)
	}
	return nil
}

// ParseClock parses hh:mm into an offset from midnight
func ParseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, parseError("Invalid time %q, expected hh:mm", value)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, parseError("The value of %s is not a number: %q", key, value)
	}
	return n, nil
}

// parseResources reads name:capacity pairs separated by commas
func parseResources(value string) ([]Resource, error) {
	var out []Resource
	for _, item := range splitList(value) {
		name, capacity, ok := strings.Cut(item, ":")
		if !ok || name == "" {
			return nil, parseError("Invalid resource %q, expected name:capacity", item)
		}
		n, err := parseInt("resource "+name, capacity)
		if err != nil {
			return nil, err
		}
		out = append(out, Resource{Name: name, Capacity: n})
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

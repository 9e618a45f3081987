package pddlrun

import (
	"fmt"
	"os"
	"strings"
)

// moveAction is the action name the translator understands.
const moveAction = "move"

// minActionTokens is the minimum token count of a translatable action:
// name, robot, origin, destination.
const minActionTokens = 4

// ExplainContent translates a plan trace into line-oriented natural
// language. Comment lines (starting with ";"), lines without a
// parenthesized action and actions that are not a well-formed move are
// silently skipped. A trace with no matching actions yields an empty
// string, which is a valid result.
func ExplainContent(trace string) string {
	var lines []string

	for _, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		open := strings.Index(line, "(")
		closing := strings.Index(line, ")")

		if open == -1 || closing == -1 || closing < open {
			continue
		}

		tokens := strings.Fields(line[open+1 : closing])
		if len(tokens) < minActionTokens || tokens[0] != moveAction {
			continue
		}

		lines = append(lines, fmt.Sprintf("Robot %s moves from %s to %s.", tokens[1], tokens[2], tokens[3]))
	}

	return strings.Join(lines, "\n")
}

// ExplainFile translates the plan trace at planPath and writes the
// explanation to explanationPath.
func ExplainFile(planPath, explanationPath string) error {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return WrapFailure(KindFileIO, "read plan file "+planPath, err)
	}

	explanation := ExplainContent(string(data))

	if err := os.WriteFile(explanationPath, []byte(explanation), 0o644); err != nil {
		return WrapFailure(KindFileIO, "write explanation file "+explanationPath, err)
	}

	return nil
}

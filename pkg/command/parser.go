// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package command

import (
	"regexp"
	"strings"

	"github.com/mentalblood0/thesis/pkg/aliasresolve"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

var paragraphSplitRegex = regexp.MustCompile(`(?:\r?\n|\r){2,}`)

var firstLineRegex = regexp.MustCompile(`^ *([+\-#^@])(?: +(\S+))? *$`)

// Parse splits input into blank-line-separated paragraphs and parses
// each into a Command, resolving references through resolver.
// It is fail-fast: the first malformed paragraph stops iteration
// and the returned error names the paragraph's 1-based index and its
// literal text. Aliases bound on a paragraph's first line are remembered
// in resolver before the next paragraph is parsed, so later paragraphs
// may reference earlier ones by alias before they are committed.
func Parse(input string, resolver *aliasresolve.Resolver) ([]Command, error) {
	var commands []Command
	paragraphs := splitParagraphs(input)
	for index, paragraph := range paragraphs {
		cmd, err := parseParagraph(index+1, paragraph, resolver)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

func splitParagraphs(input string) []string {
	var result []string
	for _, raw := range paragraphSplitRegex.Split(input, -1) {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseParagraph(index int, paragraph string, resolver *aliasresolve.Resolver) (Command, error) {
	lines := strings.Split(paragraph, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}

	match := firstLineRegex.FindStringSubmatch(lines[0])
	if match == nil {
		return nil, thesiserr.New(thesiserr.InvalidCommand,
			"can not parse first line %q of paragraph %d: %q", lines[0], index, paragraph)
	}
	op := match[1]
	var alias *thesis.Alias
	if match[2] != "" {
		a := thesis.Alias(match[2])
		if err := a.Validate(); err != nil {
			return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
				"invalid alias on first line of paragraph %d: %q", index, paragraph)
		}
		alias = &a
	}

	switch {
	case op == "+" && len(lines) == 2:
		return parseAddTextThesis(index, paragraph, lines, alias, resolver)
	case op == "+" && len(lines) == 4:
		return parseAddRelationThesis(index, paragraph, lines, alias, resolver)
	case op == "-" && len(lines) == 2:
		return parseRemoveThesis(index, paragraph, lines, resolver)
	case op == "#" && len(lines) >= 3:
		return parseAddTags(index, paragraph, lines, resolver)
	case op == "^" && len(lines) >= 3:
		return parseRemoveTags(index, paragraph, lines, resolver)
	case op == "@" && len(lines) == 2:
		return parseSetAlias(index, paragraph, lines, alias, resolver)
	default:
		return nil, thesiserr.New(thesiserr.InvalidCommand,
			"unsupported operation %q with %d lines in paragraph %d: %q",
			op, len(lines), index, paragraph)
	}
}

func parseAddTextThesis(index int, paragraph string, lines []string, alias *thesis.Alias, resolver *aliasresolve.Resolver) (Command, error) {
	text, err := thesis.ParseText(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not parse text body of paragraph %d: %q", index, paragraph)
	}
	t := thesis.New(thesis.NewTextContent(text), alias, nil)
	if err := t.Validate(); err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"invalid thesis in paragraph %d: %q", index, paragraph)
	}
	if alias != nil {
		id, err := t.ID()
		if err != nil {
			return nil, thesiserr.Wrap(err, thesiserr.EncodingFailure,
				"computing thesis id in paragraph %d: %q", index, paragraph)
		}
		resolver.Remember(*alias, id)
	}
	return AddThesis{Thesis: t}, nil
}

func parseAddRelationThesis(index int, paragraph string, lines []string, alias *thesis.Alias, resolver *aliasresolve.Resolver) (Command, error) {
	fromID, err := resolveRefLine(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve from-reference of paragraph %d: %q", index, paragraph)
	}
	kind := thesis.RelationKind(lines[2])
	if err := kind.Validate(); err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"invalid relation kind in paragraph %d: %q", index, paragraph)
	}
	toID, err := resolveRefLine(lines[3], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve to-reference of paragraph %d: %q", index, paragraph)
	}

	relation := thesis.Relation{From: fromID, To: toID, Kind: kind}
	t := thesis.New(thesis.NewRelationContent(relation), alias, nil)
	if err := t.Validate(); err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"invalid relation thesis in paragraph %d: %q", index, paragraph)
	}
	if alias != nil {
		id, err := t.ID()
		if err != nil {
			return nil, thesiserr.Wrap(err, thesiserr.EncodingFailure,
				"computing thesis id in paragraph %d: %q", index, paragraph)
		}
		resolver.Remember(*alias, id)
	}
	return AddThesis{Thesis: t}, nil
}

func parseRemoveThesis(index int, paragraph string, lines []string, resolver *aliasresolve.Resolver) (Command, error) {
	id, err := resolveRefLine(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve reference of paragraph %d: %q", index, paragraph)
	}
	return RemoveThesis{ID: id}, nil
}

func parseAddTags(index int, paragraph string, lines []string, resolver *aliasresolve.Resolver) (Command, error) {
	id, err := resolveRefLine(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve reference of paragraph %d: %q", index, paragraph)
	}
	tags, err := parseTags(lines[2:])
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"invalid tags in paragraph %d: %q", index, paragraph)
	}
	return AddTags{ID: id, Tags: tags}, nil
}

func parseRemoveTags(index int, paragraph string, lines []string, resolver *aliasresolve.Resolver) (Command, error) {
	id, err := resolveRefLine(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve reference of paragraph %d: %q", index, paragraph)
	}
	tags, err := parseTags(lines[2:])
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"invalid tags in paragraph %d: %q", index, paragraph)
	}
	return RemoveTags{ID: id, Tags: tags}, nil
}

func parseSetAlias(index int, paragraph string, lines []string, alias *thesis.Alias, resolver *aliasresolve.Resolver) (Command, error) {
	if alias == nil {
		return nil, thesiserr.New(thesiserr.InvalidCommand,
			"alias is mandatory on the first line of a @ paragraph %d: %q", index, paragraph)
	}
	id, err := resolveRefLine(lines[1], resolver)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.InvalidCommand,
			"can not resolve reference of paragraph %d: %q", index, paragraph)
	}
	resolver.Remember(*alias, id)
	return SetAlias{ID: id, Alias: *alias}, nil
}

func parseTags(lines []string) ([]thesis.Tag, error) {
	tags := make([]thesis.Tag, 0, len(lines))
	for _, line := range lines {
		tag := thesis.Tag(strings.TrimSpace(line))
		if err := tag.Validate(); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func resolveRefLine(line string, resolver *aliasresolve.Resolver) (objectid.ObjectId, error) {
	ref, err := thesis.ParseReference(strings.TrimSpace(line))
	if err != nil {
		return objectid.ObjectId{}, err
	}
	return resolver.Resolve(ref)
}

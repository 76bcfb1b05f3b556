package extract

import (
	"strings"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Lists scans top-level bullet_list_open / ordered_list_open tokens and
// recursively attaches nested lists as item children (spec §4.6).
func Lists(tokens []*mdtoken.Token) []snapshot.List {
	var out []snapshot.List
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != "bullet_list_open" && t.Type != "ordered_list_open" {
			continue
		}
		lst, next := parseList(tokens, i)
		out = append(out, lst)
		i = next
	}
	return out
}

func parseList(tokens []*mdtoken.Token, openAt int) (snapshot.List, int) {
	open := tokens[openAt]
	closeType := "bullet_list_close"
	kind := "bullet"
	if open.Type == "ordered_list_open" {
		closeType = "ordered_list_close"
		kind = "ordered"
	}

	var items []*snapshot.ListItem
	i := openAt + 1
	for i < len(tokens) {
		t := tokens[i]
		if t.Type == closeType {
			break
		}
		if t.Type == "list_item_open" {
			item, next := parseListItem(tokens, i)
			items = append(items, item)
			i = next + 1
			continue
		}
		i++
	}

	allTask := len(items) > 0
	taskCount := 0
	for _, it := range items {
		if it.Checked == nil {
			allTask = false
		} else {
			taskCount++
		}
	}
	if allTask {
		kind = "task"
	}

	lst := snapshot.List{
		Type:           kind,
		Items:          items,
		StartLine:      open.Map[0],
		EndLine:        open.Map[1],
		TaskItemsCount: taskCount,
	}
	return lst, i
}

// parseListItem returns the parsed item and the index of its matching
// list_item_close token.
func parseListItem(tokens []*mdtoken.Token, openAt int) (*snapshot.ListItem, int) {
	var sb strings.Builder
	var checked *bool
	var children []*snapshot.List
	line := tokens[openAt].Map[0]

	depth := 1
	i := openAt + 1
	for i < len(tokens) {
		t := tokens[i]
		switch t.Type {
		case "list_item_close":
			depth--
			if depth == 0 {
				return &snapshot.ListItem{
					Text:     compactTitle(sb.String()),
					Checked:  checked,
					Children: children,
					Line:     line,
				}, i
			}
		case "list_item_open":
			depth++
		case "bullet_list_open", "ordered_list_open":
			nested, next := parseList(tokens, i)
			children = append(children, &nested)
			i = next
			continue
		case "task_checkbox":
			v := t.Attrs["checked"] == "true"
			checked = &v
		case "text":
			sb.WriteString(t.Content)
		case "softbreak":
			sb.WriteByte(' ')
		}
		i++
	}
	return &snapshot.ListItem{Text: compactTitle(sb.String()), Checked: checked, Children: children, Line: line}, len(tokens) - 1
}

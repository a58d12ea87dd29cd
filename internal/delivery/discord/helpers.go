package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// reply is what a command handler wants to send back.
type reply struct {
	content    string
	embed      *discordgo.MessageEmbed
	components []discordgo.MessageComponent
	file       *discordgo.File
	ephemeral  bool
}

func textReply(msg string, ephemeral bool) reply {
	return reply{content: msg, ephemeral: ephemeral}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := opts[name]; ok {
		return strings.TrimSpace(o.StringValue())
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if o, ok := opts[name]; ok {
		return o.IntValue()
	}
	return 0
}

// idOption returns the snowflake of a role or channel option, nil when absent.
func idOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *string {
	o, ok := opts[name]
	if !ok {
		return nil
	}
	id := fmt.Sprint(o.Value)
	return &id
}

// swordLines lists owned swords, most numerous first.
func swordLines(swords map[string]int64) []string {
	type item struct {
		name string
		qty  int64
	}
	items := make([]item, 0, len(swords))
	for name, qty := range swords {
		if qty > 0 {
			items = append(items, item{name, qty})
		}
	}
	sort.Slice(items, func(a, b int) bool {
		if items[a].qty != items[b].qty {
			return items[a].qty > items[b].qty
		}
		return items[a].name < items[b].name
	})

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s × %d", it.name, it.qty))
	}
	return lines
}

func pageOf(lines []string, page, size int) (string, int) {
	if len(lines) == 0 {
		return "```text\nNone\n```", 1
	}
	pages := (len(lines) + size - 1) / size
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	end := (page + 1) * size
	if end > len(lines) {
		end = len(lines)
	}
	return "```text\n" + strings.Join(lines[page*size:end], "\n") + "\n```", pages
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Text writes v as plain terminal output, with a hint of the commands the screen accepts.
func Text(w io.Writer, v View) {
	var b strings.Builder

	if v.Alert != "" {
		b.WriteString(color.RedString("! %s", v.Alert) + "\n")
	}
	if v.Notice != "" {
		b.WriteString(color.HiGreenString("%s", v.Notice) + "\n")
	}

	switch v.Screen {
	case "login":
		b.WriteString(color.HiBlueString("== Login ==") + "\n")
		b.WriteString("commands: login <user> <password> | register | quit\n")
	case "register":
		b.WriteString(color.HiBlueString("== Register ==") + "\n")
		b.WriteString("commands: register <user> <password> | back | quit\n")
	case "subscription":
		b.WriteString(color.HiBlueString("== Subscription ==") + "\n")
		fmt.Fprintf(&b, "logged in as %s (free tier)\n", v.Username)
		b.WriteString("commands: redeem <code> <months> | free | logout\n")
	case "start":
		writeStart(&b, v)
	case "quiz":
		writeQuestion(&b, v.Question)
	case "result":
		writeResult(&b, v.Result)
	}

	if v.Message != "" {
		b.WriteString(color.YellowString("> %s", v.Message) + "\n")
	}
	_, _ = io.WriteString(w, b.String())
}

func writeStart(b *strings.Builder, v View) {
	b.WriteString(color.HiBlueString("== Start ==") + "\n")
	tier := "free"
	if v.Subscribed {
		tier = "subscribed"
	}
	fmt.Fprintf(b, "logged in as %s (%s)\n", v.Username, tier)
	if v.Start != nil {
		counts := make([]string, len(v.Start.CountOptions))
		for i, c := range v.Start.CountOptions {
			counts[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(b, "question counts: %s\n", strings.Join(counts, ", "))
	}
	b.WriteString("commands: start <name> <course> [count] | logout\n")
}

func writeQuestion(b *strings.Builder, q *Question) {
	if q == nil {
		return
	}
	fmt.Fprintf(b, "%s  time left %s  score %d\n",
		color.HiBlueString("== Question %d/%d ==", q.Number, q.Total), q.Remaining, q.Score)
	b.WriteString(q.Text + "\n")
	for i, opt := range q.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt.Text)
		switch opt.State {
		case OptionCorrect:
			line = color.GreenString("%s  [correct]", line)
		case OptionIncorrect:
			line = color.RedString("%s  [incorrect]", line)
		}
		b.WriteString(line + "\n")
	}
	cmds := []string{}
	if len(q.Options) > 0 && !q.Options[0].Disabled {
		cmds = append(cmds, "<number>")
	}
	if !q.BackDisabled {
		cmds = append(cmds, "back")
	}
	if !q.NextDisabled {
		if q.Last {
			cmds = append(cmds, "next (finish)")
		} else {
			cmds = append(cmds, "next")
		}
	}
	cmds = append(cmds, "end", "cancel", "time")
	fmt.Fprintf(b, "commands: %s\n", strings.Join(cmds, " | "))
}

func writeResult(b *strings.Builder, r *Result) {
	b.WriteString(color.HiBlueString("== Result ==") + "\n")
	if r == nil {
		return
	}
	fmt.Fprintf(b, "%s, %s: %d/%d (%s)\n", r.DisplayName, r.Course, r.Score, r.Total, r.Percentage)
	b.WriteString("commands: again | logout\n")
}

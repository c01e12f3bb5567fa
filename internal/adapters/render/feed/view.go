package feed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
)

type RenderOptions struct {
	Now     time.Time
	Session application.WalletSession
}

func renderView(records []domain.Confession, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Whispr Confessions"),
		s.header.Render(walletLine(opts.Session)),
		s.header.Render(fmt.Sprintf("confessions: %d", len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No confessions yet. Be the first to share."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		lines = append(lines, s.section.Render(renderRecord(record, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRecord(record domain.Confession, opts RenderOptions, s styles) string {
	badge := s.category.Render("[" + record.Category + "]")
	if record.IsPremium {
		badge = lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", s.premium.Render("premium"))
	}
	if record.Pending {
		badge = lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", s.pending.Render("sending..."))
	}

	meta := s.meta.Render(fmt.Sprintf("%s likes  %s", likesLabel(record.Likes), formatAge(record.CreatedAt, opts.Now)))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		badge,
		s.content.Render(record.Content),
		meta,
	)
}

func walletLine(session application.WalletSession) string {
	if !session.Connected {
		return "wallet: not connected"
	}

	line := "wallet: " + shortAddress(session.Address)
	if session.Balance != nil {
		line += fmt.Sprintf("  (%.4f SOL)", float64(*session.Balance)/float64(domain.LamportsPerSOL))
	}

	return line
}

func shortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}

	return address[:4] + "..." + address[len(address)-4:]
}

func likesLabel(likes int64) string {
	return fmt.Sprintf("%d", likes)
}

func formatAge(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "just now"
	}
	if now.IsZero() || createdAt.After(now) {
		return createdAt.Format("15:04 on 02 Jan")
	}

	elapsed := now.Sub(createdAt)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		minutes := int(elapsed.Minutes())
		return fmt.Sprintf("%dm ago", minutes)
	case elapsed < 24*time.Hour:
		hours := int(elapsed.Hours())
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := int(math.Floor(elapsed.Hours() / 24))
		return fmt.Sprintf("%dd ago", days)
	}
}

func categoryList() string {
	return strings.Join(domain.Categories, ", ")
}

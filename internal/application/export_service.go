package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"slfo/internal/models"
	"slfo/internal/repository"
)

type ExportService interface {
	// Workbook renders links, profiles and the command audit trail as an .xlsx file.
	Workbook(ctx context.Context) ([]byte, error)
}

type ExportServiceImpl struct {
	links    repository.Link
	profiles repository.Profile
	commands repository.Command
}

func NewExportServiceImpl(links repository.Link, profiles repository.Profile, commands repository.Command) *ExportServiceImpl {
	return &ExportServiceImpl{
		links:    links,
		profiles: profiles,
		commands: commands,
	}
}

func (s *ExportServiceImpl) Workbook(ctx context.Context) ([]byte, error) {
	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	commands, err := s.commands.ListCommands(ctx, commandHistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	linkRows := make([][]interface{}, 0, len(links))
	for _, l := range links {
		linkRows = append(linkRows, []interface{}{l.DiscordID, l.RobloxID, l.RobloxUsername, l.LinkedAt.Format(exportTimeLayout)})
	}
	if err := writeSheet(f, exportLinksSheet, []string{"Discord ID", "Roblox ID", "Roblox username", "Linked at"}, linkRows); err != nil {
		return nil, err
	}

	profileRows := make([][]interface{}, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		profileRows = append(profileRows, []interface{}{
			p.RobloxID, p.RobloxUsername,
			p.Stat(models.StatPoints), p.Stat(models.StatBank), p.Stat(models.StatTickets),
			p.Stat(models.StatKills), p.Stat(models.StatRobuxDonated),
			formatItems(p.Items), p.VIP, p.Beta, p.UpdatedAt.Format(exportTimeLayout),
		})
	}
	profileHeaders := []string{"Roblox ID", "Roblox username", "Points", "Bank", "Tickets", "Kills", "Robux donated", "Swords", "VIP", "Beta", "Updated at"}
	if err := writeSheet(f, exportProfilesSheet, profileHeaders, profileRows); err != nil {
		return nil, err
	}

	commandRows := make([][]interface{}, 0, len(commands))
	for _, c := range commands {
		success, result, done := "", "", ""
		if c.Success != nil {
			success = fmt.Sprintf("%t", *c.Success)
		}
		if c.ResultText != nil {
			result = *c.ResultText
		}
		if c.DoneAt != nil {
			done = c.DoneAt.Format(exportTimeLayout)
		}
		commandRows = append(commandRows, []interface{}{
			c.ID, c.TargetID, string(c.Kind), c.Amount, string(c.State),
			c.QueuedAt.Format(exportTimeLayout), done, success, result,
		})
	}
	commandHeaders := []string{"ID", "Roblox ID", "Action", "Amount", "State", "Queued at", "Done at", "Success", "Result"}
	if err := writeSheet(f, exportCommandsSheet, commandHeaders, commandRows); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, r+2, err)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", last, 16)
	return nil
}

// formatItems renders item counts as "name:count" pairs in name order.
func formatItems(items map[string]int64) string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, items[name]))
	}
	return strings.Join(parts, ", ")
}

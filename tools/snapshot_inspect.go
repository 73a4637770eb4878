package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"chat-real/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./badger", "Path to badger DB")
	showMessages := flag.Bool("messages", false, "Also print per-room message counts")
	flag.Parse()

	// BypassLockGuard allows opening while the live session holds the lock
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	snapshot, err := repositories.NewSnapshotRepository(db, slog.Default()).Load()
	if err != nil {
		log.Fatal("Error while loading snapshot: ", err)
	}

	header := fmt.Sprintf(" %s %s — %s ",
		snapshot.Settings.AppLogo, snapshot.Settings.AppName, snapshot.Settings.AppSlogan)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))
	fmt.Printf("verified: %d  banned: %d\n\n",
		len(snapshot.VerifiedUsers), len(snapshot.BannedUsers))

	rooms := newTable([]string{"ID", "Name", "Icon", "Created By", "Online", "Messages"})
	for _, room := range snapshot.Rooms {
		rooms.Append([]string{
			room.ID,
			room.Name,
			room.Icon,
			room.CreatedBy,
			fmt.Sprintf("%d", room.OnlineCount),
			fmt.Sprintf("%d", len(snapshot.Messages[room.ID])),
		})
	}
	rooms.Render()
	fmt.Println()

	slots := newTable([]string{"Slot", "User", "Name", "Speaking", "Admin Muted"})
	for _, slot := range snapshot.VoiceSlots {
		slots.Append([]string{
			slot.ID,
			slot.UserID,
			slot.UserName,
			fmt.Sprintf("%t", slot.IsSpeaking),
			fmt.Sprintf("%t", slot.IsMutedByAdmin),
		})
	}
	slots.Render()

	if *showMessages {
		fmt.Println()
		counts := newTable([]string{"Room", "Messages", "Last ID"})
		for roomID, msgs := range snapshot.Messages {
			lastID := ""
			if len(msgs) > 0 {
				lastID = msgs[len(msgs)-1].ID
			}
			counts.Append([]string{roomID, fmt.Sprintf("%d", len(msgs)), lastID})
		}
		counts.Render()
	}
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

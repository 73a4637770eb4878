package domain

// MainRoomID is the seeded default room. The registry is never empty
// after bootstrap.
const MainRoomID = "main"

type Room struct {
	ID          string
	Name        string
	Description string
	Icon        string
	CreatedBy   string
	OnlineCount int
}

// MainRoom returns the seeded default room.
func MainRoom() Room {
	return Room{
		ID:          MainRoomID,
		Name:        "مجلس العراق",
		Description: "الغرفة الرئيسية للدردشة العامة",
		Icon:        "🏰",
		CreatedBy:   "admin",
	}
}

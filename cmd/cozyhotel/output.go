package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/wolfman30/cozyhotel-client/internal/dashboard"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/offline"
	"github.com/wolfman30/cozyhotel-client/internal/rooms"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

var heading = color.New(color.Bold)

func printRoomTypes(w io.Writer, list []rooms.TypeSummary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No rooms found.")
		return
	}
	tw := newTable(w)
	heading.Fprintln(tw, "TYPE\tPRICE/NIGHT\tAVAILABLE\tDESCRIPTION")
	for _, s := range list {
		avail := fmt.Sprintf("%d/%d", s.Available, s.Total)
		if !s.Bookable() {
			avail = "fully booked"
		}
		fmt.Fprintf(tw, "%s\t$%.2f\t%s\t%s\n", s.Type, s.Price, avail, s.Description)
	}
	tw.Flush()
}

func printRooms(w io.Writer, list []hotelapi.Room) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No rooms available for those dates.")
		return
	}
	tw := newTable(w)
	heading.Fprintln(tw, "ID\tROOM\tTYPE\tPRICE/NIGHT\tCAPACITY")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%.2f\t%d\n", r.ID, r.RoomNumber, r.Type, r.PricePerNight, r.Capacity)
	}
	tw.Flush()
}

func printBookings(w io.Writer, list []hotelapi.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookings yet.")
		return
	}
	tw := newTable(w)
	heading.Fprintln(tw, "ID\tROOM\tCHECK-IN\tCHECK-OUT\tGUESTS\tTOTAL\tSTATUS")
	for _, b := range list {
		room := b.RoomType
		if b.RoomNumber != "" {
			room = b.RoomNumber + " " + b.RoomType
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t$%.2f\t%s\n",
			b.ID, room, b.CheckInDate, b.CheckOutDate, b.NumberOfGuests, b.TotalPrice, b.Status)
	}
	tw.Flush()
}

func printOfflineBookings(w io.Writer, list []offline.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No offline bookings.")
		return
	}
	tw := newTable(w)
	heading.Fprintln(tw, "ID\tROOM\tCHECK-IN\tCHECK-OUT\tPRICE\tSAVED")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			b.ID, b.Room, b.CheckIn, b.CheckOut, b.Price, b.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printUserDashboard(w io.Writer, d *dashboard.UserDashboard) {
	heading.Fprintln(w, "Statistics")
	if s := d.Stats.Data; !sectionFailed(w, d.Stats.Error) && s != nil {
		tw := newTable(w)
		fmt.Fprintf(tw, "Total bookings\t%d\n", s.TotalBookings)
		fmt.Fprintf(tw, "Active\t%d\n", s.ActiveBookings)
		fmt.Fprintf(tw, "Completed\t%d\n", s.CompletedBookings)
		fmt.Fprintf(tw, "Cancelled\t%d\n", s.CancelledBookings)
		fmt.Fprintf(tw, "Total spent\t$%.2f\n", s.TotalSpent)
		tw.Flush()
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Recent bookings")
	if !sectionFailed(w, d.Recent.Error) {
		printBookings(w, d.Recent.Data)
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Upcoming bookings")
	if !sectionFailed(w, d.Upcoming.Error) {
		printBookings(w, d.Upcoming.Data)
	}
}

func printAdminDashboard(w io.Writer, d *dashboard.AdminDashboard) {
	heading.Fprintln(w, "Statistics")
	if s := d.Stats.Data; !sectionFailed(w, d.Stats.Error) && s != nil {
		tw := newTable(w)
		fmt.Fprintf(tw, "Users\t%d\n", s.TotalUsers)
		fmt.Fprintf(tw, "Rooms\t%d (%d available)\n", s.TotalRooms, s.AvailableRooms)
		fmt.Fprintf(tw, "Bookings\t%d (%d pending)\n", s.TotalBookings, s.PendingBookings)
		fmt.Fprintf(tw, "Revenue\t$%.2f\n", s.TotalRevenue)
		tw.Flush()
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Recent bookings")
	if !sectionFailed(w, d.Recent.Error) {
		printBookings(w, d.Recent.Data)
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Bookings by status")
	if !sectionFailed(w, d.StatusSummary.Error) {
		tw := newTable(w)
		for _, s := range d.StatusSummary.Data {
			fmt.Fprintf(tw, "%s\t%d\n", s.Status, s.Count)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Top customers")
	if !sectionFailed(w, d.TopCustomers.Error) {
		tw := newTable(w)
		for _, c := range d.TopCustomers.Data {
			fmt.Fprintf(tw, "%s\t%s\t%d bookings\t$%.2f\n", c.Name, c.Email, c.BookingCount, c.TotalSpent)
		}
		tw.Flush()
	}
}

// sectionFailed prints a section's error in place of its data.
func sectionFailed(w io.Writer, msg string) bool {
	if msg == "" {
		return false
	}
	color.New(color.FgYellow).Fprintf(w, "  unavailable: %s\n", msg)
	return true
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/wolfman30/cozyhotel-client/internal/cardpay"
	"github.com/wolfman30/cozyhotel-client/internal/chat"
	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	"github.com/wolfman30/cozyhotel-client/internal/credentials"
	"github.com/wolfman30/cozyhotel-client/internal/dashboard"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/rooms"
	"github.com/wolfman30/cozyhotel-client/internal/session"
	"github.com/wolfman30/cozyhotel-client/internal/validate"
)

type command struct {
	name, short, long string
	data              any
}

func commands(c *cli) []command {
	return []command{
		{"login", "Sign in", "Sign in with e-mail and password. The password is read from stdin when --password is omitted.", &loginCommand{cli: c}},
		{"verify-otp", "Confirm a one-time code", "Confirm the one-time code sent by e-mail and sign in.", &verifyOTPCommand{cli: c}},
		{"signup", "Create an account", "Create an account; the server e-mails a one-time code to confirm it.", &signupCommand{cli: c}},
		{"logout", "Sign out", "Forget the stored token and profile.", &logoutCommand{cli: c}},
		{"whoami", "Show the signed-in user", "Show the stored profile.", &whoamiCommand{cli: c}},
		{"rooms", "List room types", "List rooms grouped by type, or select a type for booking.", &roomsCommand{cli: c}},
		{"available", "List available rooms", "List rooms free between two dates.", &availableCommand{cli: c}},
		{"book", "Book and pay for a room", "Create a booking and pay for it by card, or record it offline in demo mode.", &bookCommand{cli: c}},
		{"bookings", "List your bookings", "List your bookings.", &bookingsCommand{cli: c}},
		{"cancel", "Cancel a booking", "Cancel one of your bookings.", &cancelCommand{cli: c}},
		{"dashboard", "Show your dashboard", "Show booking statistics, recent and upcoming bookings.", &dashboardCommand{cli: c}},
		{"admin-dashboard", "Show the admin dashboard", "Show hotel statistics, recent bookings, status summary and top customers.", &adminDashboardCommand{cli: c}},
		{"chat", "Talk to the hotel assistant", "Send one message, or start an interactive session when no message is given.", &chatCommand{cli: c}},
	}
}

type loginCommand struct {
	Email    string `short:"e" long:"email" description:"account e-mail" required:"true"`
	Password string `short:"p" long:"password" description:"account password"`
	cli      *cli
}

func (cmd *loginCommand) Execute([]string) error {
	c := cmd.cli
	password := cmd.Password
	if password == "" {
		line, err := c.readLine("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = line
	}
	form := validate.LoginForm{Email: strings.TrimSpace(cmd.Email), Password: password}
	if err := validate.Login(form); err != nil {
		return err
	}
	resp, err := c.api.Auth.Login(c.ctx, hotelapi.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		return err
	}
	return c.finishAuth(resp, form.Email)
}

type verifyOTPCommand struct {
	Email  string `short:"e" long:"email" description:"account e-mail" required:"true"`
	Code   string `short:"c" long:"code" description:"one-time code"`
	Resend bool   `long:"resend" description:"ask the server to send a new code"`
	cli    *cli
}

func (cmd *verifyOTPCommand) Execute([]string) error {
	c := cmd.cli
	email := strings.TrimSpace(cmd.Email)
	if cmd.Resend {
		resp, err := c.api.Auth.ResendOTP(c.ctx, email)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, firstNonEmpty(resp.Message, "A new code is on its way."))
		return nil
	}
	form := validate.OTPForm{Email: email, Code: strings.TrimSpace(cmd.Code)}
	if err := validate.OTP(form); err != nil {
		return err
	}
	resp, err := c.api.Auth.VerifyOTP(c.ctx, hotelapi.VerifyOTPRequest{Email: form.Email, OTP: form.Code})
	if err != nil {
		return err
	}
	return c.finishAuth(resp, form.Email)
}

// finishAuth reports the outcome of login or OTP verification and the page
// the browser would open next.
func (c *cli) finishAuth(resp *hotelapi.AuthResponse, email string) error {
	if resp.RequiresOTP && resp.Token == "" {
		fmt.Fprintln(c.stdout, firstNonEmpty(resp.Message, "A one-time code was sent to your e-mail."))
		fmt.Fprintf(c.stdout, "Run `cozyhotel verify-otp --email %s --code <code>`.\n", email)
		return nil
	}
	profile, ok := c.creds.Profile(c.ctx)
	if !resp.Success || !ok || !c.creds.IsLoggedIn(c.ctx) {
		return errors.New(firstNonEmpty(resp.Message, "Sign in failed"))
	}
	color.New(color.FgGreen).Fprintf(c.stdout, "Welcome, %s!\n", profile.DisplayName())
	fallback := "user-dashboard.html"
	if profile.HasRole(credentials.AdminRole) {
		fallback = "admin-dashboard.html"
	}
	target, err := c.session.TakeRedirectAfterLogin(c.ctx, fallback)
	if err != nil {
		c.logger.Warn("read post-login redirect", "error", err)
	}
	if strings.HasPrefix(target, rooms.BookingPath) {
		fmt.Fprintln(c.stdout, "Your room is waiting: run `cozyhotel book --check-in ... --check-out ...`.")
	}
	return nil
}

type signupCommand struct {
	FirstName string `long:"first-name" description:"first name" required:"true"`
	LastName  string `long:"last-name" description:"last name" required:"true"`
	Email     string `short:"e" long:"email" description:"account e-mail" required:"true"`
	Phone     string `long:"phone" description:"phone number"`
	Password  string `short:"p" long:"password" description:"password; read from stdin when omitted"`
	cli       *cli
}

func (cmd *signupCommand) Execute([]string) error {
	c := cmd.cli
	password, confirm := cmd.Password, cmd.Password
	if password == "" {
		var err error
		if password, err = c.readLine("Password: "); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if confirm, err = c.readLine("Confirm password: "); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}
	form := validate.SignupForm{
		FirstName:       strings.TrimSpace(cmd.FirstName),
		LastName:        strings.TrimSpace(cmd.LastName),
		Email:           strings.TrimSpace(cmd.Email),
		PhoneNumber:     strings.TrimSpace(cmd.Phone),
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := validate.Signup(form); err != nil {
		return err
	}
	resp, err := c.api.Auth.Register(c.ctx, hotelapi.RegisterRequest{
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Email:           form.Email,
		PhoneNumber:     form.PhoneNumber,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(firstNonEmpty(resp.Message, "Sign up failed"))
	}
	fmt.Fprintln(c.stdout, firstNonEmpty(resp.Message, "Account created."))
	fmt.Fprintf(c.stdout, "Run `cozyhotel verify-otp --email %s --code <code>`.\n", form.Email)
	return nil
}

type logoutCommand struct {
	cli *cli
}

func (cmd *logoutCommand) Execute([]string) error {
	return cmd.cli.api.Auth.Logout(cmd.cli.ctx)
}

type whoamiCommand struct {
	cli *cli
}

func (cmd *whoamiCommand) Execute([]string) error {
	c := cmd.cli
	profile, ok := c.creds.Profile(c.ctx)
	if !ok || !c.creds.IsLoggedIn(c.ctx) {
		fmt.Fprintln(c.stdout, "Not signed in.")
		return nil
	}
	tw := newTable(c.stdout)
	fmt.Fprintf(tw, "Name\t%s\n", profile.DisplayName())
	fmt.Fprintf(tw, "E-mail\t%s\n", profile.Email)
	fmt.Fprintf(tw, "Roles\t%s\n", strings.Join(profile.Roles, ", "))
	if token, ok := c.creds.Token(c.ctx); ok {
		if exp, ok := credentials.TokenExpiry(token); ok {
			fmt.Fprintf(tw, "Expires\t%s\n", exp.Local().Format("2006-01-02 15:04"))
		}
	}
	return tw.Flush()
}

type roomsCommand struct {
	Select string `long:"select" description:"room type to book" value-name:"TYPE"`
	cli    *cli
}

func (cmd *roomsCommand) Execute([]string) error {
	c := cmd.cli
	cat := rooms.NewCatalogue(c.api.Rooms, c.creds, c.session, hotelapi.NavigatorFunc(c.navigate), c.cfg.LoginPath, c.logger)
	summaries, err := cat.List(c.ctx)
	if err != nil {
		return err
	}
	if cmd.Select == "" {
		printRoomTypes(c.stdout, summaries)
		return nil
	}
	for _, s := range summaries {
		if !strings.EqualFold(s.Type, cmd.Select) {
			continue
		}
		if _, err := cat.Select(c.ctx, session.SelectedRoom{ID: s.RoomID, Type: s.Type, Price: s.Price}, s.Bookable()); err != nil {
			if errors.Is(err, rooms.ErrFullyBooked) {
				return fmt.Errorf("%s rooms are fully booked", s.Type)
			}
			return err
		}
		fmt.Fprintf(c.stdout, "Selected %s ($%.2f/night).\n", s.Type, s.Price)
		return nil
	}
	return fmt.Errorf("no %q rooms", cmd.Select)
}

type availableCommand struct {
	CheckIn  string `long:"check-in" description:"arrival date (YYYY-MM-DD)" required:"true"`
	CheckOut string `long:"check-out" description:"departure date (YYYY-MM-DD)" required:"true"`
	HotelID  int    `long:"hotel" description:"hotel id" default:"1"`
	cli      *cli
}

func (cmd *availableCommand) Execute([]string) error {
	c := cmd.cli
	// Room id and guests are not part of the search; fill them so only the
	// dates are checked.
	if err := validate.Booking(validate.BookingForm{RoomID: 1, Guests: 1, CheckIn: cmd.CheckIn, CheckOut: cmd.CheckOut}); err != nil {
		return err
	}
	list, err := c.api.Rooms.Available(c.ctx, cmd.HotelID, cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return err
	}
	printRooms(c.stdout, list)
	return nil
}

type bookCommand struct {
	RoomID        int    `long:"room" description:"room id; defaults to the room picked with rooms --select"`
	CheckIn       string `long:"check-in" description:"arrival date (YYYY-MM-DD)" required:"true"`
	CheckOut      string `long:"check-out" description:"departure date (YYYY-MM-DD)" required:"true"`
	Guests        int    `long:"guests" description:"number of guests" default:"1"`
	Requests      string `long:"requests" description:"special requests"`
	PaymentMethod string `long:"payment-method" description:"card payment method id" default:"pm_card_visa"`
	HolderName    string `long:"card-holder" description:"name on the card"`
	cli           *cli
}

func (cmd *bookCommand) Execute([]string) error {
	c := cmd.cli
	if !c.cfg.DemoMode && !c.creds.IsLoggedIn(c.ctx) {
		if err := c.session.SetRedirectAfterLogin(c.ctx, rooms.BookingPath); err != nil {
			return err
		}
		c.navigate(c.ctx, c.cfg.LoginPath)
		return hotelapi.ErrAuthenticationRequired
	}

	req := checkout.Request{
		Form: validate.BookingForm{
			RoomID:          cmd.RoomID,
			CheckIn:         cmd.CheckIn,
			CheckOut:        cmd.CheckOut,
			Guests:          cmd.Guests,
			SpecialRequests: cmd.Requests,
		},
	}
	selected, ok, err := c.session.SelectedRoom(c.ctx)
	if err != nil {
		return err
	}
	if ok && (req.Form.RoomID == 0 || req.Form.RoomID == selected.ID) {
		req.Form.RoomID = selected.ID
		req.RoomType = selected.Type
		req.PricePerNight = selected.Price
	}
	if req.RoomType == "" && req.Form.RoomID > 0 && !c.cfg.DemoMode {
		if room, err := c.api.Rooms.Get(c.ctx, req.Form.RoomID); err == nil {
			req.RoomType, req.PricePerNight = room.Type, room.PricePerNight
		} else if hotelapi.IsKind(err, hotelapi.KindAuthenticationRequired) {
			return err
		}
	}
	req.Card = cardpay.Card{PaymentMethod: cmd.PaymentMethod, HolderName: cmd.HolderName}
	if profile, ok := c.creds.Profile(c.ctx); ok {
		req.Card.HolderName = firstNonEmpty(cmd.HolderName, profile.DisplayName())
		req.Card.Email = profile.Email
	}

	flow := checkout.New(checkout.Options{
		Bookings: c.api.Bookings,
		Payments: c.api.Payments,
		Card:     c.card,
		Offline:  c.offline,
		Demo:     c.cfg.DemoMode,
		Logger:   c.logger,
	})
	receipt, err := flow.Submit(c.ctx, req)
	if err != nil {
		if errors.Is(err, checkout.ErrNoCardConfirmer) {
			return errors.New("card payments are not configured; set STRIPE_PUBLISHABLE_KEY or use --demo")
		}
		return err
	}
	if err := c.session.ClearSelectedRoom(c.ctx); err != nil {
		c.logger.Warn("clear selected room", "error", err)
	}

	green := color.New(color.FgGreen)
	if receipt.Demo {
		green.Fprintf(c.stdout, "Booking saved offline (%s, $%.2f).\n", receipt.Offline.ID, receipt.Offline.Price)
		return nil
	}
	green.Fprintf(c.stdout, "Booking #%d confirmed", receipt.Booking.ID)
	if receipt.Payment != nil {
		fmt.Fprintf(c.stdout, " (payment %s)", receipt.Payment.Status)
	}
	fmt.Fprintln(c.stdout)
	return nil
}

type bookingsCommand struct {
	cli *cli
}

func (cmd *bookingsCommand) Execute([]string) error {
	c := cmd.cli
	if c.cfg.DemoMode {
		list, err := c.offline.List(c.ctx)
		if err != nil {
			return err
		}
		printOfflineBookings(c.stdout, list)
		return nil
	}
	list, err := c.api.Bookings.Mine(c.ctx)
	if err != nil {
		return err
	}
	printBookings(c.stdout, list)
	return nil
}

type cancelCommand struct {
	Args struct {
		ID int `positional-arg-name:"booking-id" required:"yes"`
	} `positional-args:"yes"`
	cli *cli
}

func (cmd *cancelCommand) Execute([]string) error {
	c := cmd.cli
	if err := c.api.Bookings.Cancel(c.ctx, cmd.Args.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Booking #%d cancelled.\n", cmd.Args.ID)
	return nil
}

type dashboardCommand struct {
	cli *cli
}

func (cmd *dashboardCommand) Execute([]string) error {
	c := cmd.cli
	if !c.creds.IsLoggedIn(c.ctx) {
		c.navigate(c.ctx, c.cfg.LoginPath)
		return hotelapi.ErrAuthenticationRequired
	}
	d, err := dashboard.NewLoader(c.api.Dashboard, c.logger).User(c.ctx)
	if err != nil {
		return err
	}
	printUserDashboard(c.stdout, d)
	return nil
}

type adminDashboardCommand struct {
	cli *cli
}

func (cmd *adminDashboardCommand) Execute([]string) error {
	c := cmd.cli
	if !c.creds.IsLoggedIn(c.ctx) {
		c.navigate(c.ctx, c.cfg.LoginPath)
		return hotelapi.ErrAuthenticationRequired
	}
	if !c.creds.IsAdmin(c.ctx) {
		return errors.New("the admin dashboard needs the Admin role")
	}
	d, err := dashboard.NewLoader(c.api.Dashboard, c.logger).Admin(c.ctx)
	if err != nil {
		return err
	}
	printAdminDashboard(c.stdout, d)
	return nil
}

type chatCommand struct {
	Option string `short:"o" long:"option" description:"quick option 1-4"`
	cli    *cli
}

func (cmd *chatCommand) Execute(args []string) error {
	c := cmd.cli
	w := c.chatWidget()
	w.Open()
	defer w.Close()

	if cmd.Option != "" {
		reply, ok := w.SendOption(c.ctx, cmd.Option)
		if !ok {
			return fmt.Errorf("unknown option %q", cmd.Option)
		}
		fmt.Fprintln(c.stdout, chat.FormatTerminal(reply))
		return nil
	}
	if len(args) > 0 {
		reply, _ := w.Send(c.ctx, strings.Join(args, " "))
		fmt.Fprintln(c.stdout, chat.FormatTerminal(reply))
		return nil
	}

	fmt.Fprintln(c.stderr, "Type a message, 1-4 for quick options, or exit to quit.")
	for {
		line, err := c.readLine("> ")
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		reply, ok := w.SendOption(c.ctx, line)
		if !ok {
			if reply, ok = w.Send(c.ctx, line); !ok {
				continue
			}
		}
		fmt.Fprintln(c.stdout, chat.FormatTerminal(reply))
		if c.ctx.Err() != nil {
			return nil
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

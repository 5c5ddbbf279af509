package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/souravsatyam/gymapp/internal/api"
	"github.com/souravsatyam/gymapp/internal/booking"
	"github.com/souravsatyam/gymapp/internal/buddy"
	"github.com/souravsatyam/gymapp/internal/config"
	"github.com/souravsatyam/gymapp/internal/geo"
	"github.com/souravsatyam/gymapp/internal/gym"
	"github.com/souravsatyam/gymapp/internal/logger"
	"github.com/souravsatyam/gymapp/internal/notification"
	"github.com/souravsatyam/gymapp/internal/payment"
	"github.com/souravsatyam/gymapp/internal/session"
	"github.com/souravsatyam/gymapp/internal/store"
	"github.com/souravsatyam/gymapp/internal/user"
)

// flagLocation feeds -lat/-long into the resolver the way the device
// location service would; omitting the flags behaves like a denied
// permission and the directory falls back to an unfiltered fetch.
type flagLocation struct {
	lat, long float64
	set       bool
}

func (f flagLocation) CurrentCoordinates(ctx context.Context) (geo.Coordinates, error) {
	if !f.set {
		return geo.Coordinates{}, geo.ErrPermissionDenied
	}
	return geo.Coordinates{Lat: f.lat, Long: f.long}, nil
}

type app struct {
	cfg       *config.Config
	sessions  *session.Service
	store     *session.Store
	resolver  *geo.Resolver
	directory *gym.Directory
	gyms      *gym.Client
	bookings  *booking.Client
	submitter *booking.Submitter
	cache     *booking.Repository
	buddies   *buddy.Client
	users     *user.Client
	notifs    *notification.Client
}

func main() {
	cmd := flag.String("cmd", "gyms", "Command: login|register|verify|gyms|gym|book|bookings|buddies|friend|invite|profile|upload|notifications|logout")
	phone := flag.String("phone", "", "Phone number (login/register/verify)")
	name := flag.String("name", "", "Full name (register)")
	otp := flag.String("otp", "", "One-time password (verify)")
	lat := flag.Float64("lat", 0, "Latitude")
	long := flag.Float64("long", 0, "Longitude")
	hasCoords := flag.Bool("here", false, "Use -lat/-long as the current position")
	pincode := flag.String("pincode", "", "6-digit postal code instead of coordinates")
	search := flag.String("search", "", "Free-text gym or buddy search")
	pages := flag.Int("pages", 1, "Number of directory pages to load")
	gymID := flag.Int64("gym", 0, "Gym id")
	slotID := flag.Int64("slot", 0, "Slot id")
	date := flag.String("date", "", "Booking date as MM/DD/YYYY")
	duration := flag.Int("duration", 60, "Workout duration in minutes")
	checkout := flag.Bool("checkout", false, "Run the payment gateway checkout step")
	bookingID := flag.Int64("booking", 0, "Booking id (invite)")
	userID := flag.Int64("user", 0, "User id (invite/friend)")
	requestID := flag.Int64("request", 0, "Friend request id (friend -accept/-reject)")
	friendAction := flag.String("action", "add", "Friend action: add|accept|reject")
	file := flag.String("file", "", "Image file to upload")
	cached := flag.Bool("cached", false, "List bookings from the offline cache")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open local store: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sessionStore, err := session.NewStore(ctx, session.NewRepository(db))
	if err != nil {
		logger.Fatalf("Failed to load session: %v", err)
	}
	if sessionStore.Expired() {
		logger.Warn("Stored token is expired; log in again")
	}

	apiClient := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, sessionStore)
	geocoder := geo.NewGeocoder(cfg.GeocoderBaseURL, cfg.RequestTimeout)
	gymClient := gym.NewClient(apiClient)
	bookingClient := booking.NewClient(apiClient)
	cache := booking.NewRepository(db)
	submitter := booking.NewSubmitter(bookingClient, cache)

	a := &app{
		cfg:       cfg,
		sessions:  session.NewService(apiClient, sessionStore),
		store:     sessionStore,
		resolver:  geo.NewResolver(geocoder, flagLocation{lat: *lat, long: *long, set: *hasCoords}),
		directory: gym.NewDirectory(gymClient, cfg.PageSize),
		gyms:      gymClient,
		bookings:  bookingClient,
		submitter: submitter,
		cache:     cache,
		buddies:   buddy.NewClient(apiClient),
		users:     user.NewClient(apiClient),
		notifs:    notification.NewClient(apiClient),
	}

	if *checkout {
		listener := payment.NewListener(cfg.CheckoutPort)
		submitter.SetCheckout(func(ctx context.Context, order *booking.PaymentOrder) (string, error) {
			fmt.Println("Open this URL to pay:", listener.CheckoutURL(cfg.PaymentGatewayURL, order.ID))
			result, err := listener.Await(ctx)
			if err != nil {
				return "", err
			}
			if !result.Succeeded() {
				return "", fmt.Errorf("payment %s ended with status %s", result.PaymentID, result.Status)
			}
			return result.PaymentID, nil
		})
	}

	if cfg.MetricsPort != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe("localhost:"+cfg.MetricsPort, mux); err != nil {
				logger.Errorf("Metrics listener: %v", err)
			}
		}()
	}

	switch *cmd {
	case "login":
		err = a.login(ctx, *phone)
	case "register":
		err = a.register(ctx, *name, *phone)
	case "verify":
		err = a.verify(ctx, *phone, *otp)
	case "gyms":
		err = a.listGyms(ctx, *pincode, *search, *pages)
	case "gym":
		err = a.showGym(ctx, *gymID)
	case "book":
		err = a.book(ctx, *gymID, *slotID, *date, *duration, *userID)
	case "bookings":
		err = a.listBookings(ctx, *cached)
	case "buddies":
		err = a.listBuddies(ctx, *search)
	case "friend":
		err = a.friend(ctx, *friendAction, *userID, *requestID)
	case "invite":
		err = a.invite(ctx, *bookingID, *userID)
	case "profile":
		err = a.profile(ctx)
	case "upload":
		err = a.upload(ctx, *file)
	case "notifications":
		err = a.notifications(ctx)
	case "logout":
		err = a.sessions.Logout(ctx)
	default:
		err = fmt.Errorf("unknown command %q", *cmd)
	}

	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func (a *app) login(ctx context.Context, phone string) error {
	if phone == "" {
		return errors.New("-phone required")
	}
	if err := a.sessions.Login(ctx, phone); err != nil {
		return err
	}
	fmt.Println("OTP sent to", phone)
	return nil
}

func (a *app) register(ctx context.Context, name, phone string) error {
	if name == "" || phone == "" {
		return errors.New("-name and -phone required")
	}
	if err := a.sessions.Register(ctx, name, phone); err != nil {
		return err
	}
	fmt.Println("Registered; OTP sent to", phone)
	return nil
}

func (a *app) verify(ctx context.Context, phone, otp string) error {
	if phone == "" || otp == "" {
		return errors.New("-phone and -otp required")
	}
	sess, err := a.sessions.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Profile.FullName, sess.Profile.MobileNumber)
	return nil
}

// listGyms resolves a position (pincode beats device coordinates), then
// pages through the directory. A denied location falls back to an
// unfiltered fetch rather than failing.
func (a *app) listGyms(ctx context.Context, pincode, search string, pages int) error {
	var lat, long float64
	locality := geo.UnknownLocation

	switch {
	case pincode != "":
		loc, err := a.resolver.ResolveFromPostalCode(ctx, pincode)
		if err != nil {
			return err
		}
		lat, long, locality = loc.Coords.Lat, loc.Coords.Long, loc.Locality
	default:
		loc, err := a.resolver.ResolveCurrentLocation(ctx)
		switch {
		case err == nil:
			lat, long, locality = loc.Coords.Lat, loc.Coords.Long, loc.Locality
		case errors.Is(err, geo.ErrPermissionDenied):
			logger.Info("No location available, fetching unfiltered gym list")
		default:
			return err
		}
	}

	a.directory.Reset(lat, long, search)
	for i := 0; i < pages && a.directory.HasMore(); i++ {
		if err := a.directory.LoadNextPage(ctx); err != nil {
			return err
		}
	}

	fmt.Printf("Gyms near %s:\n", locality)
	for _, g := range a.directory.Gyms() {
		fmt.Printf("  [%d] %s (%s)  rating %.2f  %.1f km\n", g.ID, g.Name, g.City, g.Rating, g.Distance)
	}
	if a.directory.HasMore() {
		fmt.Println("  ... more available, raise -pages")
	}
	return nil
}

func (a *app) showGym(ctx context.Context, id int64) error {
	if id == 0 {
		return errors.New("-gym required")
	}
	g, err := a.gyms.GetByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s, %s\n%s\n", g.Name, g.City, g.Description)
	for _, e := range g.Equipment {
		fmt.Println("  •", e.Name)
	}
	fmt.Println("Slots:")
	for _, s := range g.Slots {
		fmt.Printf("  [%d] %s  ₹%.0f/hr  capacity %d\n", s.ID, s.StartTime, s.Price, s.Capacity)
	}
	return nil
}

func (a *app) book(ctx context.Context, gymID, slotID int64, date string, duration int, inviteUserID int64) error {
	if gymID == 0 || slotID == 0 || date == "" {
		return errors.New("-gym, -slot and -date required")
	}

	g, err := a.gyms.GetByID(ctx, gymID)
	if err != nil {
		return err
	}

	var slot *gym.Slot
	for i := range g.Slots {
		if g.Slots[i].ID == slotID {
			slot = &g.Slots[i]
			break
		}
	}
	if slot == nil {
		return fmt.Errorf("gym %d has no slot %d", gymID, slotID)
	}

	sel := booking.Selection{
		Gym:             *g,
		Slot:            *slot,
		Date:            date,
		DurationMinutes: duration,
	}

	confirmed, err := a.submitter.Submit(ctx, sel)
	if err != nil {
		return fmt.Errorf("booking failed (%s): %w", a.submitter.State(), err)
	}
	fmt.Printf("Booked! id %d at %s for %s (₹%.2f)\n", confirmed.ID, g.Name, confirmed.BookingDate, sel.Amount())

	if inviteUserID != 0 {
		a.submitter.InviteBuddy(ctx, confirmed.ID, inviteUserID)
		fmt.Println("Buddy invite sent to user", inviteUserID)
	}
	return nil
}

func (a *app) listBookings(ctx context.Context, cached bool) error {
	if cached {
		rows, err := a.cache.ListCached(ctx)
		if err != nil {
			return err
		}
		for _, b := range rows {
			fmt.Printf("  [%d] %s on %s  ₹%.2f\n", b.BookingID, b.GymName, b.BookingDate, b.Amount)
		}
		return nil
	}

	rows, err := a.bookings.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range rows {
		fmt.Printf("  [%d] %s on %s  (%s)\n", b.ID, b.GymName, b.BookingDate, b.Status)
	}
	return nil
}

func (a *app) listBuddies(ctx context.Context, search string) error {
	var (
		candidates []buddy.Candidate
		err        error
	)
	if search != "" {
		candidates, err = a.buddies.Search(ctx, search)
	} else {
		var lat, long float64
		loc, lerr := a.resolver.ResolveCurrentLocation(ctx)
		switch {
		case lerr == nil:
			lat, long = loc.Coords.Lat, loc.Coords.Long
		case errors.Is(lerr, geo.ErrPermissionDenied):
			logger.Info("No location available, listing nearby users without a position")
		default:
			return lerr
		}
		candidates, err = a.buddies.Nearby(ctx, lat, long)
	}
	if err != nil {
		return err
	}

	for _, c := range candidates {
		fmt.Printf("  [%d] %s (@%s)  %s\n", c.ID, c.Name, c.Username, c.Relationship().Label())
	}
	return nil
}

func (a *app) friend(ctx context.Context, action string, userID, requestID int64) error {
	switch action {
	case "add":
		if userID == 0 {
			return errors.New("-user required")
		}
		return a.buddies.SendRequest(ctx, userID)
	case "accept":
		if requestID == 0 {
			return errors.New("-request required")
		}
		return a.buddies.Accept(ctx, requestID)
	case "reject":
		if requestID == 0 {
			return errors.New("-request required")
		}
		return a.buddies.Reject(ctx, requestID)
	default:
		return fmt.Errorf("unknown friend action %q", action)
	}
}

func (a *app) invite(ctx context.Context, bookingID, userID int64) error {
	if bookingID == 0 || userID == 0 {
		return errors.New("-booking and -user required")
	}
	a.submitter.InviteBuddy(ctx, bookingID, userID)
	fmt.Println("Invite sent")
	return nil
}

func (a *app) profile(ctx context.Context) error {
	profile, err := a.users.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s  (%s)\n", profile.FullName, profile.MobileNumber)
	if exp := a.store.TokenExpiry(); !exp.IsZero() {
		fmt.Println("Session valid until", exp.Format(time.RFC1123))
	}
	return nil
}

func (a *app) upload(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("-file required")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := a.users.UploadProfileImage(ctx, f.Name(), f)
	if err != nil {
		return err
	}
	fmt.Println("Uploaded:", url)
	return nil
}

func (a *app) notifications(ctx context.Context) error {
	rows, err := a.notifs.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range rows {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s: %s\n", marker, n.Title, n.Message)
	}
	return nil
}

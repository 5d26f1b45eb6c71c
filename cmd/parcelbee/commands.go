package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/dig"

	"parcelbee-client/internal/app"
	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/service/auth"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/service/pricing"
	"parcelbee-client/internal/session"
)

type env struct {
	ctx       context.Context
	container *dig.Container
	args      []string
	out       io.Writer
}

type action func(e env) error

type command struct {
	summary string
	// interactive commands may ask for a distance on stdin
	interactive bool
	setup       func(fs *pflag.FlagSet) action
}

var commands = map[string]command{
	"login":    {summary: "sign in and store the session", setup: loginCmd},
	"register": {summary: "create a customer or partner account", setup: registerCmd},
	"logout":   {summary: "clear the stored session", setup: logoutCmd},
	"whoami":   {summary: "show the signed-in user", setup: whoamiCmd},
	"forgot":   {summary: "request a password reset token", setup: forgotCmd},
	"reset":    {summary: "set a new password with a reset token", setup: resetCmd},
	"list":     {summary: "show deliveries for your role", setup: listCmd},
	"create":   {summary: "create a delivery request", interactive: true, setup: createCmd},
	"accept":   {summary: "accept an available delivery (partner)", setup: acceptCmd},
	"status":   {summary: "move a delivery to in_transit or delivered (partner)", setup: statusCmd},
	"estimate": {summary: "quote a delivery price", interactive: true, setup: estimateCmd},
	"watch":    {summary: "keep the delivery list fresh, optionally serving the console", setup: watchCmd},
}

func loginCmd(fs *pflag.FlagSet) action {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	remember := fs.Bool("remember", false, "keep the session after this terminal session")
	return func(e env) error {
		return e.container.Invoke(func(svc *auth.Service, nav *app.Navigator) error {
			res, err := svc.Login(e.ctx, *email, *password, *remember)
			if err != nil {
				return err
			}
			printAuth(e.out, res)
			nav.Navigate(res.Page)
			return nil
		})
	}
}

func registerCmd(fs *pflag.FlagSet) action {
	var in auth.RegisterInput
	role := fs.String("role", string(domain.RoleCustomer), "customer or partner")
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	fs.StringVar(&in.Phone, "phone", "", "phone number (optional)")
	return func(e env) error {
		in.Role = domain.Role(*role)
		return e.container.Invoke(func(svc *auth.Service, nav *app.Navigator) error {
			res, err := svc.Register(e.ctx, in)
			if err != nil {
				return err
			}
			printAuth(e.out, res)
			nav.Navigate(res.Page)
			return nil
		})
	}
}

func logoutCmd(*pflag.FlagSet) action {
	return func(e env) error {
		return e.container.Invoke(func(svc *auth.Service) error {
			if err := svc.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out")
			return nil
		})
	}
}

func whoamiCmd(*pflag.FlagSet) action {
	return func(e env) error {
		return e.container.Invoke(func(store *session.Store) error {
			c, err := store.Claims()
			if err != nil {
				return apperr.ErrAuthenticationRequired
			}
			printClaims(e.out, c)
			return nil
		})
	}
}

func forgotCmd(fs *pflag.FlagSet) action {
	email := fs.String("email", "", "account email")
	return func(e env) error {
		return e.container.Invoke(func(svc *auth.Service) error {
			msg, token, err := svc.ForgotPassword(e.ctx, *email)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, msg)
			// the saved copy lives only as long as this process
			if token != "" {
				fmt.Fprintf(e.out, "Reset token: %s\nRun: parcelbee reset --token %s --password <new>\n", token, token)
			}
			return nil
		})
	}
}

func resetCmd(fs *pflag.FlagSet) action {
	token := fs.String("token", "", "reset token from 'parcelbee forgot'")
	password := fs.String("password", "", "new password")
	confirm := fs.String("confirm", "", "repeat the new password (defaults to --password)")
	return func(e env) error {
		if *confirm == "" {
			*confirm = *password
		}
		return e.container.Invoke(func(svc *auth.Service, nav *app.Navigator) error {
			msg, err := svc.ResetPassword(e.ctx, *token, *password, *confirm)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, msg)
			nav.Navigate(domain.PageLogin)
			return nil
		})
	}
}

func listCmd(fs *pflag.FlagSet) action {
	filter := fs.String("filter", "", "all, available or mine; empty shows the full view for your role")
	return func(e env) error {
		return e.container.Invoke(func(ctrl *lifecycle.Controller) error {
			if *filter == "" {
				v, err := ctrl.Refresh(e.ctx)
				if err != nil {
					return err
				}
				printView(e.out, v)
				return nil
			}
			ds, err := ctrl.List(e.ctx, domain.ListFilter(*filter))
			if err != nil {
				return err
			}
			printDeliveries(e.out, ds)
			return nil
		})
	}
}

func createCmd(fs *pflag.FlagSet) action {
	var in lifecycle.CreateInput
	fs.StringVar(&in.PickupAddress, "pickup", "", "pickup address")
	fs.StringVar(&in.DropAddress, "drop", "", "drop address")
	fs.StringVar(&in.Description, "description", "", "what is being sent")
	fs.StringVar(&in.Weight, "weight", "", "weight in kg")
	quote := fs.Bool("estimate", false, "quote the price first and attach it")
	pc := coordFlags(fs)
	return func(e env) error {
		return e.container.Invoke(func(ctrl *lifecycle.Controller, est *pricing.Estimator) error {
			if *quote {
				w, err := strconv.ParseFloat(in.Weight, 64)
				if err != nil {
					return apperr.Invalidf("Please enter a valid weight")
				}
				q, err := est.Estimate(e.ctx, pc.request(in.PickupAddress, in.DropAddress, w))
				if err != nil {
					return err
				}
				printEstimate(e.out, q)
			}
			d, err := ctrl.Create(e.ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Delivery created")
			printDelivery(e.out, d)
			return nil
		})
	}
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, apperr.Invalidf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalidf("invalid delivery id %q", args[0])
	}
	return id, nil
}

func acceptCmd(*pflag.FlagSet) action {
	return func(e env) error {
		id, err := parseID(e.args, "parcelbee accept <id>")
		if err != nil {
			return err
		}
		return e.container.Invoke(func(ctrl *lifecycle.Controller) error {
			d, err := ctrl.Accept(e.ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Delivery accepted")
			printDelivery(e.out, d)
			return nil
		})
	}
}

func statusCmd(*pflag.FlagSet) action {
	return func(e env) error {
		const use = "parcelbee status <id> <in_transit|delivered>"
		id, err := parseID(e.args, use)
		if err != nil {
			return err
		}
		if len(e.args) < 2 {
			return apperr.Invalidf("usage: %s", use)
		}
		return e.container.Invoke(func(ctrl *lifecycle.Controller) error {
			d, err := ctrl.UpdateStatus(e.ctx, id, domain.Status(e.args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Status updated to %s\n", d.Status.Label())
			printDelivery(e.out, d)
			return nil
		})
	}
}

func estimateCmd(fs *pflag.FlagSet) action {
	pickup := fs.String("pickup", "", "pickup address")
	drop := fs.String("drop", "", "drop address")
	weight := fs.Float64("weight", 0, "weight in kg")
	local := fs.Bool("local", false, "skip the backend and use the local tariff")
	pc := coordFlags(fs)
	return func(e env) error {
		return e.container.Invoke(func(est *pricing.Estimator) error {
			req := pc.request(*pickup, *drop, *weight)
			quote := est.Estimate
			if *local {
				quote = est.EstimateLocal
			}
			q, err := quote(e.ctx, req)
			if err != nil {
				return err
			}
			printEstimate(e.out, q)
			return nil
		})
	}
}

func watchCmd(*pflag.FlagSet) action {
	return func(e env) error {
		return app.NewWatchRunner(func(v lifecycle.View) { printView(e.out, v) }).
			OnListen(func(addr string) { fmt.Fprintf(e.out, "Console on http://%s\n", addr) }).
			Run(e.container)
	}
}

type coords struct {
	pickupLat, pickupLng, dropLat, dropLng *float64
	fs                                     *pflag.FlagSet
}

func coordFlags(fs *pflag.FlagSet) *coords {
	return &coords{
		pickupLat: fs.Float64("pickup-lat", 0, "pickup latitude"),
		pickupLng: fs.Float64("pickup-lng", 0, "pickup longitude"),
		dropLat:   fs.Float64("drop-lat", 0, "drop latitude"),
		dropLng:   fs.Float64("drop-lng", 0, "drop longitude"),
		fs:        fs,
	}
}

func (c *coords) request(pickup, drop string, weight float64) pricing.Request {
	req := pricing.Request{PickupAddress: pickup, DropAddress: drop, Weight: weight}
	if c.fs.Changed("pickup-lat") && c.fs.Changed("pickup-lng") {
		req.Pickup = &domain.Coordinates{Lat: *c.pickupLat, Lng: *c.pickupLng}
	}
	if c.fs.Changed("drop-lat") && c.fs.Changed("drop-lng") {
		req.Drop = &domain.Coordinates{Lat: *c.dropLat, Lng: *c.dropLng}
	}
	return req
}

// jobswipe seeker client
//
// Terminal front-end for the recommendation backend: presents one job card
// at a time, resolves like/dislike/save decisions, enforces the daily
// swipe quota, and keeps the saved and liked lists in sync with the
// backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobswipe/seeker-client/internal/backend"
	"jobswipe/seeker-client/internal/config"
	"jobswipe/seeker-client/internal/jobcache"
	"jobswipe/seeker-client/internal/model"
	"jobswipe/seeker-client/internal/quota"
	"jobswipe/seeker-client/internal/recs"
	"jobswipe/seeker-client/internal/stack"
	"jobswipe/seeker-client/internal/storage"
	"jobswipe/seeker-client/internal/swipe"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[seeker-client] No .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[seeker-client] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Device storage ───────────────────────────────────────────────────────
	var kv storage.KV
	if cfg.RedisURL != "" {
		log.Println("[seeker-client] Connecting to Redis…")
		rdb, err := storage.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[seeker-client] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[seeker-client] Redis connected ✓")
		kv = rdb
	} else {
		fs, err := storage.NewFile(cfg.StateDir)
		if err != nil {
			log.Fatalf("[seeker-client] State dir: %v", err)
		}
		log.Printf("[seeker-client] Device state in %s", cfg.StateDir)
		kv = fs
	}

	// ── Wiring ───────────────────────────────────────────────────────────────
	client := backend.New(cfg.APIBaseURL)
	quotaStore := quota.New(kv, cfg.DailyLimit)
	saved := jobcache.NewSaved(client, cfg.UserKey)
	accepted := jobcache.NewAccepted(client, cfg.UserKey)
	controller := stack.New(recs.New(client), cfg.UserKey, cfg.BatchLimit)

	engine := swipe.New(swipe.Config{
		UserKey:    cfg.UserKey,
		Deck:       controller,
		Quota:      quotaStore,
		Accepted:   accepted,
		Saved:      saved,
		Dispatcher: client,
		OnResolve: func(job model.Job, dir swipe.Direction) {
			fmt.Printf("  card flies %s — %s at %s\n", dir, job.Title, job.Company)
		},
	})

	// Cache stores are primed once; failures degrade to empty lists and the
	// post-mutation reconciles converge them later.
	if err := saved.Refresh(ctx); err != nil {
		log.Printf("[seeker-client] Saved jobs unavailable: %v", err)
	}
	if err := accepted.Refresh(ctx); err != nil {
		log.Printf("[seeker-client] Liked jobs unavailable: %v", err)
	}

	log.Printf("[seeker-client] v%s — user %s, backend %s", version, cfg.UserKey, cfg.APIBaseURL)
	if err := controller.Start(ctx); err != nil {
		log.Printf("[seeker-client] Initial fetch failed: %v — use 'refresh' to retry", err)
	}
	defer controller.Stop()

	// ── Command loop ─────────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go runLoop(ctx, cfg.UserKey, client, engine, controller, quotaStore, saved, accepted, done)

	select {
	case <-quit:
	case <-done:
	}

	log.Println("[seeker-client] Shutting down…")
}

func runLoop(
	ctx context.Context,
	userKey string,
	client *backend.Client,
	engine *swipe.Engine,
	controller *stack.Controller,
	quotaStore *quota.Store,
	saved, accepted *jobcache.Store,
	done chan<- struct{},
) {
	defer close(done)

	printHelp()
	showCurrent(engine, controller)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Print("> ")
			continue
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "like", "l":
			reportOutcome(engine.Like(ctx))
			showCurrent(engine, controller)
		case "reject", "r", "pass":
			reportOutcome(engine.Reject(ctx))
			showCurrent(engine, controller)
		case "save", "b", "bookmark":
			toggleBookmark(engine)
		case "swipe":
			if len(fields) < 2 {
				fmt.Println("usage: swipe <like|dislike|save|apply|super_like>")
				break
			}
			action, err := model.ParseAction(fields[1])
			if err != nil {
				fmt.Println(err)
				break
			}
			switch action {
			case model.ActionLike:
				reportOutcome(engine.Like(ctx))
				showCurrent(engine, controller)
			case model.ActionDislike:
				reportOutcome(engine.Reject(ctx))
				showCurrent(engine, controller)
			case model.ActionSave:
				toggleBookmark(engine)
			default:
				// apply and super_like are forwarded as-is; the card stays
				// on the deck and the quota is untouched.
				job, ok := engine.Current()
				if !ok {
					fmt.Println("no card to act on")
					break
				}
				err := client.Swipe(ctx, model.SwipeIntent{
					UserKey: userKey,
					JobID:   job.ID,
					Action:  action,
					At:      time.Now(),
					Job:     &job,
				})
				if err != nil {
					fmt.Printf("%s failed: %v\n", action, err)
				} else {
					fmt.Printf("%s sent for %s at %s\n", action, job.Title, job.Company)
				}
			}
		case "show":
			showCurrent(engine, controller)
		case "saved":
			printJobs(saved.Jobs())
		case "liked":
			printJobs(accepted.Jobs())
		case "status":
			remaining := quotaStore.Remaining(ctx, userKey)
			reset := quota.FormatReset(quotaStore.TimeUntilReset(ctx, userKey))
			fmt.Printf("%d of %d swipes left today, reset in %s; %d card(s) in batch, location %q\n",
				remaining, quotaStore.Limit(), reset, controller.Len(), controller.Location())
		case "location":
			if len(fields) < 2 {
				fmt.Println("usage: location <place>")
				break
			}
			controller.SetLocation(ctx, strings.Join(fields[1:], " "))
			fmt.Println("location updated, batch will refresh shortly")
		case "refresh":
			if err := controller.Refetch(ctx); err != nil {
				fmt.Printf("refresh failed: %v\n", err)
			} else {
				showCurrent(engine, controller)
			}
		case "register":
			if len(fields) < 4 {
				fmt.Println("usage: register <email> <first-name> <last-name>")
				break
			}
			err := client.CreateUser(ctx, backend.CreateUserRequest{
				ClerkID:   userKey,
				Email:     fields[1],
				FirstName: fields[2],
				LastName:  fields[3],
			})
			if err != nil {
				fmt.Printf("register failed: %v\n", err)
			} else {
				fmt.Println("registered")
			}
		case "help", "?":
			printHelp()
		case "quit", "q", "exit":
			return
		default:
			fmt.Printf("unknown command %q — try 'help'\n", cmd)
		}
		fmt.Print("> ")
	}
}

func printHelp() {
	fmt.Println(`commands:
  like | l            accept the current job
  reject | r | pass   reject the current job
  save | b            bookmark / unbookmark the current job
  swipe <action>      send like|dislike|save|apply|super_like
  show                show the current card
  saved               list bookmarked jobs
  liked               list liked jobs
  status              quota and batch status
  location <place>    change the location filter
  refresh             refetch the batch
  register <email> <first> <last>   create the backend user
  quit | q`)
}

func toggleBookmark(engine *swipe.Engine) {
	nowSaved, err := engine.ToggleBookmark()
	switch {
	case err != nil:
		fmt.Println(err)
	case nowSaved:
		fmt.Println("bookmarked")
	default:
		fmt.Println("bookmark removed")
	}
}

func reportOutcome(outcome *swipe.Outcome, err error) {
	switch {
	case err != nil:
		fmt.Println(err)
	case outcome == nil:
		fmt.Println("card springs back")
	default:
		fmt.Printf("%s — %s at %s (%d swipes left)\n",
			outcome.Action, outcome.Job.Title, outcome.Job.Company, outcome.Remaining)
	}
}

func showCurrent(engine *swipe.Engine, controller *stack.Controller) {
	job, ok := engine.Current()
	if !ok {
		if err := controller.Err(); err != nil {
			fmt.Printf("no jobs — last fetch failed (%v). Try 'refresh'.\n", err)
			return
		}
		fmt.Println("no more jobs right now — try 'refresh' or a different location")
		return
	}
	fmt.Printf("%s at %s — %s, %s (%d%% match)\n",
		job.Title, job.Company, job.Location, job.Salary, job.MatchPercentage)
	fmt.Printf("  %s · %s · posted %s\n", job.Type, job.Experience, job.PostedTime)
	if len(job.Tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(job.Tags, ", "))
	}
}

func printJobs(jobs []model.Job) {
	if len(jobs) == 0 {
		fmt.Println("(empty)")
		return
	}
	for i, j := range jobs {
		fmt.Printf("%2d. %s at %s — %s\n", i+1, j.Title, j.Company, j.Location)
	}
}

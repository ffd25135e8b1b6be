// Dev entry point: serves the app from an in-memory store seeded with demo
// tasks and contacts. Production runs cmd/server instead.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/BastianThoma/join/internal/config"
	"github.com/BastianThoma/join/internal/contact"
	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/model"
	"github.com/BastianThoma/join/internal/serverapp"
	"github.com/BastianThoma/join/internal/task"
)

func main() {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Store.Driver = "memory"

	store := docstore.NewMemoryStore()
	if err := seedDemoData(ctx, store, cfg); err != nil {
		log.Fatal(err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		Logger:        log.Default(),
		Store:         store,
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("join (dev, memory store) listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

func seedDemoData(ctx context.Context, store docstore.Store, cfg *config.Config) error {
	contacts := contact.NewStoreRepo(store, cfg.Contacts.Palette)
	tasks := task.NewStoreRepo(store)

	anton, err := contacts.Create(ctx, model.Contact{
		Name:  "Anton Mayer",
		Email: "anton@example.com",
		Phone: "+49 1111 111111",
	})
	if err != nil {
		return err
	}
	benedikt, err := contacts.Create(ctx, model.Contact{
		Name:  "Benedikt Ziegler",
		Email: "benedikt@example.com",
	})
	if err != nil {
		return err
	}
	if _, err := contacts.Create(ctx, model.Contact{
		Name:  "Zoe Ruiz",
		Email: "zoe@example.com",
	}); err != nil {
		return err
	}

	seed := []model.Task{
		{
			Title:       "Kochwelt page and recipe recommender",
			Description: "Build start page with recipe recommendation.",
			DueDate:     "2026-09-10",
			Priority:    model.PriorityMedium,
			AssignedTo:  []model.ContactID{anton.ID, benedikt.ID},
			Category:    "User Story",
			Subtasks:    []string{"Implement recipe recommendation", "Start page layout"},
			Status:      model.StatusInProgress,
		},
		{
			Title:       "CSS architecture planning",
			Description: "Define CSS naming conventions and structure.",
			DueDate:     "2026-09-02",
			Priority:    model.PriorityUrgent,
			AssignedTo:  []model.ContactID{benedikt.ID},
			Category:    "Technical Task",
			Status:      model.StatusAwaitFeedback,
		},
		{
			Title:       "HTML base template creation",
			Description: "Create reusable HTML base templates.",
			DueDate:     "2026-09-20",
			Priority:    model.PriorityLow,
			Category:    "Technical Task",
			Status:      model.StatusTodo,
		},
		{
			Title:       "Contact form and imprint",
			Description: "Legal pages plus a working contact form.",
			DueDate:     "2026-08-30",
			Priority:    model.PriorityUrgent,
			AssignedTo:  []model.ContactID{anton.ID},
			Category:    "User Story",
			Subtasks:    []string{"Contact form", "Imprint"},
			Status:      model.StatusDone,
		},
	}
	for _, t := range seed {
		if _, err := tasks.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

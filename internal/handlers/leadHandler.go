package handlers

import (
	"context"
	"fmt"

	"github.com/go-chi/chi"

	"learnhub/internal/models"
)

type leadInput struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required,phone"`
	Course  string `json:"course"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

type leadUpdate struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required,phone"`
	Course  string `json:"course"`
	Source  string `json:"source"`
	Message string `json:"message"`
	Status  string `json:"status" validate:"required,oneof=new contacted admitted closed"`
	Notes   string `json:"notes"`
}

type centerInput struct {
	Name    string `json:"name" validate:"notblank"`
	City    string `json:"city" validate:"notblank"`
	State   string `json:"state"`
	Address string `json:"address"`
	Pincode string `json:"pincode" validate:"omitempty,pincode"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	MapURL  string `json:"mapUrl" validate:"omitempty,url"`
	Active  bool   `json:"active"`
}

type newsletterSectionInput struct {
	Title    string `json:"title" validate:"notblank"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	Order    int    `json:"order" validate:"gte=0"`
	Active   bool   `json:"active"`
}

type contactInput struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"notblank"`
}

type contactUpdate struct {
	Resolved bool `json:"resolved"`
}

func (h *Handler) leadCreated(ctx context.Context, lead *models.Lead) {
	h.notify(ctx, "New lead: "+lead.Name, fmt.Sprintf(
		"Name: %s\nPhone: %s\nEmail: %s\nCourse: %s\nSource: %s\n\n%s",
		lead.Name, lead.Phone, lead.Email, lead.Course, lead.Source, lead.Message))
}

func (h *Handler) contactCreated(ctx context.Context, c *models.Contact) {
	subject := c.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	h.notify(ctx, "New contact message: "+subject, fmt.Sprintf(
		"From: %s <%s>\nPhone: %s\n\n%s", c.Name, c.Email, c.Phone, c.Message))
}

func (h *Handler) mountResources(r chi.Router) {
	admin := r.With(h.Authentication, AdminOnly)

	leads := &resource[models.Lead, leadInput, leadUpdate]{
		h:       h,
		repo:    h.Collections.Leads,
		filters: []string{"status", "source"},
		prepare: func(l *models.Lead) { l.Status = models.LeadNew },
		created: h.leadCreated,
	}
	r.Post("/leads", leads.create)
	admin.Get("/leads", leads.list)
	admin.Get("/leads/{id}", leads.get)
	admin.Put("/leads/{id}", leads.update)
	admin.Delete("/leads/{id}", leads.remove)

	centers := &resource[models.Center, centerInput, centerInput]{
		h:       h,
		repo:    h.Collections.Centers,
		filters: []string{"city", "state"},
		flags:   []string{"active"},
	}
	r.Get("/centers", centers.list)
	r.Get("/centers/{id}", centers.get)
	admin.Post("/centers", centers.create)
	admin.Put("/centers/{id}", centers.update)
	admin.Delete("/centers/{id}", centers.remove)

	sections := &resource[models.NewsletterSection, newsletterSectionInput, newsletterSectionInput]{
		h:     h,
		repo:  h.Collections.NewsletterSections,
		flags: []string{"active"},
		sort:  "order",
	}
	r.Get("/newsletter-sections", sections.list)
	r.Get("/newsletter-sections/{id}", sections.get)
	admin.Post("/newsletter-sections", sections.create)
	admin.Put("/newsletter-sections/{id}", sections.update)
	admin.Delete("/newsletter-sections/{id}", sections.remove)

	contacts := &resource[models.Contact, contactInput, contactUpdate]{
		h:       h,
		repo:    h.Collections.Contacts,
		flags:   []string{"resolved"},
		created: h.contactCreated,
	}
	r.Post("/contacts", contacts.create)
	admin.Get("/contacts", contacts.list)
	admin.Get("/contacts/{id}", contacts.get)
	admin.Put("/contacts/{id}", contacts.update)
	admin.Delete("/contacts/{id}", contacts.remove)

	transactions := &resource[models.Transaction, transactionInput, transactionInput]{
		h:       h,
		repo:    h.Collections.Transactions,
		filters: []string{"status"},
	}
	r.With(h.OptionalAuthentication).Post("/transactions", h.CreateTransaction)
	admin.Get("/transactions", transactions.list)
	admin.Get("/transactions/{id}", transactions.get)
	admin.Patch("/transactions/{id}/verify", h.VerifyTransaction)
	admin.Delete("/transactions/{id}", transactions.remove)

	r.Get("/privacy-policy", h.GetPrivacyPolicy)
	admin.Put("/privacy-policy", h.UpdatePrivacyPolicy)
}

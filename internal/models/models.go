// Package models defines the records exchanged with the restaurant platform.
// Identifiers are assigned by the service and travel as "_id".
package models

import (
	"bytes"
	"time"

	jsonitor "github.com/json-iterator/go"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// User is a staff account. The cached operator profile uses the same shape.
type User struct {
	ID         string     `json:"_id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	Role       string     `json:"role" yaml:"role"`
	Avatar     string     `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Phone      string     `json:"phone,omitempty" yaml:"phone,omitempty"`
	Restaurant string     `json:"restaurant,omitempty" yaml:"restaurant,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Video is either an external link or an uploaded file.
type Video struct {
	Type string `json:"type" yaml:"type"` // "url" or "file"
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

type News struct {
	ID          string     `json:"_id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Category    string     `json:"category" yaml:"category"`
	Status      string     `json:"status" yaml:"status"`
	Summary     string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Restaurant  string     `json:"restaurant,omitempty" yaml:"restaurant,omitempty"`
	Image       string     `json:"image,omitempty" yaml:"image,omitempty"`
	Video       *Video     `json:"video,omitempty" yaml:"video,omitempty"`
	Author      *Author    `json:"author,omitempty" yaml:"author,omitempty"`
	Views       int        `json:"views,omitempty" yaml:"views,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"published_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Author is the populated writer of a news post.
type Author struct {
	ID   string `json:"_id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// UnmarshalJSON accepts the populated object as well as a bare id string.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*a = Author{}
		return json.Unmarshal(data, &a.ID)
	}
	type plain Author
	return json.Unmarshal(data, (*plain)(a))
}

type Restaurant struct {
	ID           string   `json:"_id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Address      string   `json:"address,omitempty" yaml:"address,omitempty"`
	Phone        string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string   `json:"email,omitempty" yaml:"email,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty" yaml:"opening_hours,omitempty"`
	Capacity     int      `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Images       []string `json:"images,omitempty" yaml:"images,omitempty"`
	IsActive     bool     `json:"is_active" yaml:"is_active"`
}

type Reservation struct {
	ID         string `json:"_id" yaml:"id"`
	Restaurant string `json:"restaurant" yaml:"restaurant"`
	Name       string `json:"name" yaml:"name"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	Date       string `json:"date" yaml:"date"`
	Time       string `json:"time" yaml:"time"`
	Guests     int    `json:"guests" yaml:"guests"`
	Status     string `json:"status" yaml:"status"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type MenuItem struct {
	ID          string  `json:"_id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Restaurant  string  `json:"restaurant,omitempty" yaml:"restaurant,omitempty"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty"`
	IsAvailable bool    `json:"is_available" yaml:"is_available"`
}

package models

import (
	apiModels "github.com/090809/apartments-web/internal/propertyapi/models"
)

type LoginPageData struct {
	BaseURL    string
	Email      string
	LoginError string
}

type ApartmentsPageData struct {
	BaseURL    string
	Error      string
	Apartments []apiModels.Apartment
}

package postgres

import "github.com/taka-shaka/matching-site-sub001/internal/domain"

func toAdminEntity(m adminModel) domain.Admin {
	return domain.Admin{
		ID:          m.ID,
		AuthID:      m.AuthID,
		Email:       m.Email,
		Name:        m.Name,
		Role:        domain.AdminRole(m.Role),
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toCompanyModel(c *domain.Company) companyModel {
	return companyModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		Prefecture:  string(c.Prefecture),
		City:        c.City,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		WebsiteURL:  c.WebsiteURL,
		LogoURL:     c.LogoURL,
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCompanyEntity(m companyModel) domain.Company {
	return domain.Company{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		Prefecture:  domain.Prefecture(m.Prefecture),
		City:        m.City,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		WebsiteURL:  m.WebsiteURL,
		LogoURL:     m.LogoURL,
		IsPublished: m.IsPublished,
		Tags:        toTagEntities(m.Tags),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func companyRef(m *companyModel) *domain.Company {
	if m == nil {
		return nil
	}
	c := toCompanyEntity(*m)
	return &c
}

func toMemberEntity(m memberModel) domain.Member {
	return domain.Member{
		ID:        m.ID,
		AuthID:    m.AuthID,
		Email:     m.Email,
		Name:      m.Name,
		Role:      domain.MemberRole(m.Role),
		CompanyID: m.CompanyID,
		Company:   companyRef(m.Company),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func toCustomerEntity(m customerModel) domain.Customer {
	return domain.Customer{
		ID:          m.ID,
		AuthID:      m.AuthID,
		Email:       m.Email,
		LastName:    m.LastName,
		FirstName:   m.FirstName,
		PhoneNumber: m.PhoneNumber,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toCaseModel(c *domain.ConstructionCase) caseModel {
	return caseModel{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		AuthorID:       c.AuthorID,
		Title:          c.Title,
		Description:    c.Description,
		Prefecture:     string(c.Prefecture),
		City:           c.City,
		BuildingArea:   c.BuildingArea,
		Budget:         c.Budget,
		CompletionYear: c.CompletionYear,
		MainImageURL:   c.MainImageURL,
		Status:         string(c.Status),
		ViewCount:      c.ViewCount,
		PublishedAt:    c.PublishedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toCaseEntity(m caseModel) domain.ConstructionCase {
	images := make([]domain.CaseImage, 0, len(m.Images))
	for _, img := range m.Images {
		images = append(images, domain.CaseImage{
			ID:           img.ID,
			CaseID:       img.CaseID,
			ImageURL:     img.ImageURL,
			DisplayOrder: img.DisplayOrder,
		})
	}
	return domain.ConstructionCase{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		AuthorID:       m.AuthorID,
		Title:          m.Title,
		Description:    m.Description,
		Prefecture:     domain.Prefecture(m.Prefecture),
		City:           m.City,
		BuildingArea:   m.BuildingArea,
		Budget:         m.Budget,
		CompletionYear: m.CompletionYear,
		MainImageURL:   m.MainImageURL,
		Status:         domain.CaseStatus(m.Status),
		ViewCount:      m.ViewCount,
		PublishedAt:    m.PublishedAt,
		Company:        companyRef(m.Company),
		Tags:           toTagEntities(m.Tags),
		Images:         images,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toInquiryEntity(m inquiryModel) domain.Inquiry {
	responses := make([]domain.InquiryResponse, 0, len(m.Responses))
	for _, r := range m.Responses {
		responses = append(responses, toInquiryResponseEntity(r))
	}
	return domain.Inquiry{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		CustomerID:    m.CustomerID,
		InquirerName:  m.InquirerName,
		InquirerEmail: m.InquirerEmail,
		InquirerPhone: m.InquirerPhone,
		Message:       m.Message,
		Status:        domain.InquiryStatus(m.Status),
		InternalNotes: m.InternalNotes,
		RespondedAt:   m.RespondedAt,
		Company:       companyRef(m.Company),
		Responses:     responses,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toInquiryResponseEntity(m inquiryResponseModel) domain.InquiryResponse {
	return domain.InquiryResponse{
		ID:        m.ID,
		InquiryID: m.InquiryID,
		Sender:    domain.ResponseSender(m.Sender),
		MemberID:  m.MemberID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func toGeneralInquiryEntity(m generalInquiryModel) domain.GeneralInquiry {
	responses := make([]domain.GeneralInquiryResponse, 0, len(m.Responses))
	for _, r := range m.Responses {
		responses = append(responses, domain.GeneralInquiryResponse{
			ID:               r.ID,
			GeneralInquiryID: r.GeneralInquiryID,
			Sender:           domain.ResponseSender(r.Sender),
			AdminID:          r.AdminID,
			Message:          r.Message,
			CreatedAt:        r.CreatedAt,
		})
	}
	return domain.GeneralInquiry{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		Subject:       m.Subject,
		Message:       m.Message,
		Status:        domain.InquiryStatus(m.Status),
		InternalNotes: m.InternalNotes,
		RespondedAt:   m.RespondedAt,
		Responses:     responses,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toTagEntity(m tagModel) domain.Tag {
	return domain.Tag{
		ID:           m.ID,
		Name:         m.Name,
		Category:     domain.TagCategory(m.Category),
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toTagEntities(models []tagModel) []domain.Tag {
	tags := make([]domain.Tag, 0, len(models))
	for _, m := range models {
		tags = append(tags, toTagEntity(m))
	}
	domain.SortTags(tags)
	return tags
}

func tagIDsOf(tags []domain.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
)

// contactRepository implements the ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository instance
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create creates a new contact in the database
func (r *contactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// ListByUser returns the contacts of a user, newest first. A limit of 0
// returns all of them.
func (r *contactRepository) ListByUser(userID uint, limit int) ([]models.Contact, error) {
	var contacts []models.Contact
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&contacts).Error
	return contacts, err
}

// FindByIdentity looks up a contact by email or phone, email first.
// Either field may be empty; an empty field never matches.
func (r *contactRepository) FindByIdentity(userID uint, email, phone string) (*models.Contact, error) {
	if email == "" && phone == "" {
		return nil, gorm.ErrRecordNotFound
	}

	query := r.db.Where("user_id = ?", userID)
	switch {
	case email != "" && phone != "":
		query = query.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		query = query.Where("phone = ?", phone)
	}

	var contact models.Contact
	if err := query.Order("id").First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpsertByIdentity merges webhook contact data into an existing contact
// matched by email or phone, or creates a new one. Incoming non-empty
// fields win; absent fields keep their stored value. With no identity
// fields at all the call is a no-op returning nil.
func (r *contactRepository) UpsertByIdentity(userID uint, in ContactInput) (*models.Contact, error) {
	if in.IsEmpty() {
		return nil, nil
	}

	existing, err := r.FindByIdentity(userID, in.Email, in.Phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		mergeContactFields(existing, in)
		if err := r.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	contact := &models.Contact{
		UserID: userID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Origin: models.ContactOriginChatVolt,
		Tags:   models.StringList(in.Tags),
	}
	if contact.Name == "" {
		contact.Name = models.DefaultContactName
	}
	if err := r.db.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes a contact owned by the given user
func (r *contactRepository) Delete(userID, id uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Contact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUser returns the total number of contacts of a user
func (r *contactRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Contact{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// mergeContactFields applies the identity-merge rule: new non-empty values
// override, absent values keep the existing ones.
func mergeContactFields(contact *models.Contact, in ContactInput) {
	if in.Name != "" {
		contact.Name = in.Name
	}
	if in.Email != "" {
		contact.Email = in.Email
	}
	if in.Phone != "" {
		contact.Phone = in.Phone
	}
	if in.Tags != nil {
		contact.Tags = models.StringList(in.Tags)
	}
}

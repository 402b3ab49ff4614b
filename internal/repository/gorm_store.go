package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type entityRecord struct {
	Seq      uint64        `gorm:"column:seq;primaryKey;autoIncrement"`
	GUID     string        `gorm:"column:guid;size:64;uniqueIndex"`
	TypeName string        `gorm:"column:type_name;size:128;index"`
	Entity   *EntityDetail `gorm:"column:body;serializer:json"`
}

func (entityRecord) TableName() string { return "omrs_entities" }

type relationshipRecord struct {
	Seq          uint64        `gorm:"column:seq;primaryKey;autoIncrement"`
	GUID         string        `gorm:"column:guid;size:64;uniqueIndex"`
	TypeName     string        `gorm:"column:type_name;size:128;index"`
	End1GUID     string        `gorm:"column:end1_guid;size:64;index"`
	End2GUID     string        `gorm:"column:end2_guid;size:64;index"`
	Relationship *Relationship `gorm:"column:body;serializer:json"`
}

func (relationshipRecord) TableName() string { return "omrs_relationships" }

// GormStore keeps instances in a relational database. Each instance is stored as a JSON
// document next to the columns needed to find it.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore migrates the instance tables and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&entityRecord{}, &relationshipRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate metadata tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateEntity(ctx context.Context, entity *EntityDetail) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&entityRecord{}).Where("guid = ?", entity.GUID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateGUID
	}
	rec := entityRecord{GUID: entity.GUID, TypeName: entity.Type.TypeName, Entity: entity.Clone()}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormStore) GetEntity(ctx context.Context, guid string) (*EntityDetail, error) {
	var rec entityRecord
	err := s.db.WithContext(ctx).Where("guid = ?", guid).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Entity, nil
}

func (s *GormStore) UpdateEntity(ctx context.Context, entity *EntityDetail) error {
	res := s.db.WithContext(ctx).Model(&entityRecord{}).
		Where("guid = ?", entity.GUID).
		Updates(&entityRecord{TypeName: entity.Type.TypeName, Entity: entity.Clone()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteEntity(ctx context.Context, guid string) error {
	res := s.db.WithContext(ctx).Where("guid = ?", guid).Delete(&entityRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindEntities(ctx context.Context, query EntityQuery) ([]*EntityDetail, error) {
	tx := s.db.WithContext(ctx).Order("seq")
	if query.TypeName != "" {
		tx = tx.Where("type_name IN ?", SubTypes(query.TypeName))
	}
	var recs []entityRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*EntityDetail, 0, len(recs))
	for _, rec := range recs {
		if query.matches(rec.Entity) {
			out = append(out, rec.Entity)
		}
	}
	return out, nil
}

func (s *GormStore) CreateRelationship(ctx context.Context, relationship *Relationship) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&relationshipRecord{}).Where("guid = ?", relationship.GUID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateGUID
	}
	rec := relationshipRecord{
		GUID:         relationship.GUID,
		TypeName:     relationship.Type.TypeName,
		End1GUID:     relationship.End1.GUID,
		End2GUID:     relationship.End2.GUID,
		Relationship: relationship.Clone(),
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormStore) GetRelationship(ctx context.Context, guid string) (*Relationship, error) {
	var rec relationshipRecord
	err := s.db.WithContext(ctx).Where("guid = ?", guid).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Relationship, nil
}

func (s *GormStore) UpdateRelationship(ctx context.Context, relationship *Relationship) error {
	res := s.db.WithContext(ctx).Model(&relationshipRecord{}).
		Where("guid = ?", relationship.GUID).
		Updates(&relationshipRecord{Relationship: relationship.Clone()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteRelationship(ctx context.Context, guid string) error {
	res := s.db.WithContext(ctx).Where("guid = ?", guid).Delete(&relationshipRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetRelationships(ctx context.Context, query RelationshipQuery) ([]*Relationship, error) {
	tx := s.db.WithContext(ctx).Order("seq")
	if query.TypeName != "" {
		tx = tx.Where("type_name = ?", query.TypeName)
	}
	if query.EntityGUID != "" {
		switch query.End {
		case EndOne:
			tx = tx.Where("end1_guid = ?", query.EntityGUID)
		case EndTwo:
			tx = tx.Where("end2_guid = ?", query.EntityGUID)
		default:
			tx = tx.Where("(end1_guid = ? OR end2_guid = ?)", query.EntityGUID, query.EntityGUID)
		}
	}
	var recs []relationshipRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*Relationship, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Relationship)
	}
	return out, nil
}

package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	storeSuite
	service portssvc.CatalogSvcFacade
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.storeSuite.SetupTest()
	suite.service = services.NewCatalogService(suite.repos, suite.opts()...)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (suite *CatalogServiceTestSuite) TestCreatePromoCode_UppercasedAndUnique() {
	promo, err := suite.service.CreatePromoCode(suite.ctx, dto.CreatePromoCodeRequest{
		Code: "vena10", DiscountType: domain.DiscountPercentage, DiscountValue: rp(10),
	}, "admin")
	suite.Require().NoError(err)
	suite.Equal("VENA10", promo.Code)
	suite.True(promo.IsActive)
	suite.Zero(promo.UsageCount)

	_, err = suite.service.CreatePromoCode(suite.ctx, dto.CreatePromoCodeRequest{
		Code: "Vena10", DiscountType: domain.DiscountFixed, DiscountValue: rp(100_000),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CatalogServiceTestSuite) TestCreatePromoCode_Validation() {
	_, err := suite.service.CreatePromoCode(suite.ctx, dto.CreatePromoCodeRequest{
		Code: "BIG", DiscountType: domain.DiscountPercentage, DiscountValue: rp(150),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreatePromoCode(suite.ctx, dto.CreatePromoCodeRequest{
		Code: "ZERO", DiscountType: domain.DiscountFixed, DiscountValue: rp(0),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CatalogServiceTestSuite) TestExpirePromoCodes() {
	yesterday := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.repos.PromoCodeRepo.Insert(suite.ctx, &domain.PromoCode{ID: "P1", Code: "OLD", IsActive: true, ExpiryDate: &yesterday}))
	suite.Require().NoError(suite.repos.PromoCodeRepo.Insert(suite.ctx, &domain.PromoCode{ID: "P2", Code: "TODAY", IsActive: true, ExpiryDate: &today}))
	suite.Require().NoError(suite.repos.PromoCodeRepo.Insert(suite.ctx, &domain.PromoCode{ID: "P3", Code: "FOREVER", IsActive: true}))

	expired, err := suite.service.ExpirePromoCodes(suite.ctx, fixedNow)
	suite.Require().NoError(err)
	suite.Equal(1, expired)

	p1, _ := suite.repos.PromoCodeRepo.Get(suite.ctx, "P1")
	suite.False(p1.IsActive)
	p2, _ := suite.repos.PromoCodeRepo.Get(suite.ctx, "P2")
	suite.True(p2.IsActive)

	expired, err = suite.service.ExpirePromoCodes(suite.ctx, fixedNow)
	suite.Require().NoError(err)
	suite.Zero(expired)
}

func (suite *CatalogServiceTestSuite) TestDeactivatePromoCode() {
	suite.Require().NoError(suite.repos.PromoCodeRepo.Insert(suite.ctx, &domain.PromoCode{ID: "P1", Code: "VENA10", IsActive: true}))

	promo, err := suite.service.DeactivatePromoCode(suite.ctx, "P1", "admin")
	suite.Require().NoError(err)
	suite.False(promo.IsActive)

	_, err = suite.service.DeactivatePromoCode(suite.ctx, "P404", "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CatalogServiceTestSuite) TestPackagesAndAddOns() {
	_, err := suite.service.CreatePackage(suite.ctx, dto.CreatePackageRequest{Name: "Paket Silver", Price: rp(8_000_000), Items: []string{"1 Fotografer"}}, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.CreateAddOn(suite.ctx, dto.CreateAddOnRequest{Name: "Drone", Price: rp(2_000_000)}, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.CreateAddOn(suite.ctx, dto.CreateAddOnRequest{Name: "Bad", Price: rp(-1)}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	pkgs, err := suite.service.ListPackages(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(pkgs, 1)
	addOns, err := suite.service.ListAddOns(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(addOns, 1)
}

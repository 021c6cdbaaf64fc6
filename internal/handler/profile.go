package handler

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/config"
    "github.com/glowcart/storefront/internal/model"
    "github.com/glowcart/storefront/internal/repository"
)

// ProfileHandler serves the authenticated customer's own profile.
type ProfileHandler struct {
    Cfg       config.Config
    Customers *repository.CustomerRepo
}

func NewProfileHandler(cfg config.Config, customers *repository.CustomerRepo) *ProfileHandler {
    return &ProfileHandler{Cfg: cfg, Customers: customers}
}

// profileResp is the customer row minus credential material.
type profileResp struct {
    ID          uint64          `json:"id"`
    AccountName string          `json:"accountName"`
    Mail        string          `json:"mail"`
    FirstName   string          `json:"firstName,omitempty"`
    LastName    string          `json:"lastName,omitempty"`
    PhoneNumber string          `json:"phoneNumber,omitempty"`
    Gender      string          `json:"gender,omitempty"`
    Birthday    string          `json:"birthday,omitempty"`
    AvatarURL   string          `json:"avatarUrl,omitempty"`
    SkinProfile json.RawMessage `json:"skinProfile,omitempty"`
    Tier        int             `json:"tier"`
    Address     json.RawMessage `json:"address,omitempty"`
}

func toProfileResp(c model.Customer) profileResp {
    out := profileResp{
        ID:          c.ID,
        AccountName: c.AccountName,
        Mail:        c.Mail,
        FirstName:   c.FirstName.String,
        LastName:    c.LastName.String,
        PhoneNumber: c.PhoneNumber.String,
        Gender:      c.Gender.String,
        AvatarURL:   c.AvatarURL.String,
        SkinProfile: c.SkinProfile,
        Tier:        c.Tier,
        Address:     c.Address,
    }
    if c.Birthday.Valid {
        out.Birthday = c.Birthday.Time.Format("2006-01-02")
    }
    return out
}

// Get handles GET /api/profile.  The admin identity has no customer row, so
// its synthetic id resolves to 404 here.
func (h *ProfileHandler) Get(c echo.Context) error {
    userID, err := currentUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    cust, err := h.Customers.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrCustomerNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
        }
        log.Printf("profile: fetch failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
    }
    return c.JSON(http.StatusOK, toProfileResp(cust))
}

// updateProfileReq carries the updatable fields.  Pointers distinguish
// "absent" from "set to empty".
type updateProfileReq struct {
    AccountName *string         `json:"accountName"`
    FirstName   *string         `json:"firstName"`
    LastName    *string         `json:"lastName"`
    PhoneNumber *string         `json:"phoneNumber"`
    Gender      *string         `json:"gender"`
    Birthday    *string         `json:"birthday"`
    SkinProfile json.RawMessage `json:"skinProfile"`
    Address     json.RawMessage `json:"address"`
}

// Update handles PUT /api/profile.  Renames to a protected name (admin,
// root, superadmin, the configured admin name) and renames to a name held
// by another customer both return the same generic 409, so the response
// cannot be used to probe which names exist.
func (h *ProfileHandler) Update(c echo.Context) error {
    userID, err := currentUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    var req updateProfileReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if req.AccountName != nil {
        name := strings.TrimSpace(*req.AccountName)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "accountName cannot be empty"})
        }
        req.AccountName = &name

        protected := map[string]bool{"admin": true, "root": true, "superadmin": true}
        protected[strings.ToLower(h.Cfg.AdminName)] = true
        taken := protected[strings.ToLower(name)]
        if !taken {
            taken, err = h.Customers.AccountNameTaken(ctx, name, userID)
            if err != nil {
                log.Printf("profile: name check failed: %v", err)
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
            }
        }
        if taken {
            return c.JSON(http.StatusConflict, echo.Map{"message": "This account name is already taken."})
        }
    }

    if req.Birthday != nil && *req.Birthday != "" {
        if _, err := time.Parse("2006-01-02", *req.Birthday); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "birthday must be YYYY-MM-DD"})
        }
    }

    cust, err := h.Customers.UpdateProfile(ctx, userID, repository.ProfileUpdate{
        AccountName: req.AccountName,
        FirstName:   req.FirstName,
        LastName:    req.LastName,
        PhoneNumber: req.PhoneNumber,
        Gender:      req.Gender,
        Birthday:    req.Birthday,
        SkinProfile: req.SkinProfile,
        Address:     req.Address,
    })
    if err != nil {
        if errors.Is(err, repository.ErrCustomerExists) {
            return c.JSON(http.StatusConflict, echo.Map{"message": "This account name is already taken."})
        }
        if errors.Is(err, repository.ErrCustomerNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
        }
        log.Printf("profile: update failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error updating profile"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Profile updated successfully!",
        "user":    toProfileResp(cust),
    })
}

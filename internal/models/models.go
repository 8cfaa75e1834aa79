package models

import "time"

// User represents an account. Accounts are created as regular users;
// the admin flag widens the ownership checks on order mutations.
type User struct {
	ID           int64     `db:"id" json:"-"`
	UUID         string    `db:"uuid" json:"uuid"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	Admin        bool      `db:"admin" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Item is a catalog entry. Availability is the purchasable stock,
// decremented inside the order placement transaction.
type Item struct {
	ID           int64     `db:"id" json:"-"`
	UUID         string    `db:"uuid" json:"uuid"`
	Name         string    `db:"name" json:"name"`
	Price        float64   `db:"price" json:"price"`
	Description  string    `db:"description" json:"description"`
	Availability int       `db:"availability" json:"availability"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// Address is a delivery address belonging to one user.
type Address struct {
	ID        int64     `db:"id" json:"-"`
	UUID      string    `db:"uuid" json:"uuid"`
	UserID    int64     `db:"user_id" json:"-"`
	Country   string    `db:"country" json:"country"`
	City      string    `db:"city" json:"city"`
	PostCode  string    `db:"post_code" json:"post_code"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Favorite is the (user, item) bookmark join row. The pair is unique.
type Favorite struct {
	ID        int64     `db:"id" json:"-"`
	UUID      string    `db:"uuid" json:"uuid"`
	UserID    int64     `db:"user_id" json:"-"`
	ItemID    int64     `db:"item_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Order is a purchase request bound to one user and one delivery address.
type Order struct {
	ID         int64     `db:"id" json:"-"`
	UUID       string    `db:"uuid" json:"uuid"`
	UserID     int64     `db:"user_id" json:"-"`
	AddressID  int64     `db:"address_id" json:"-"`
	TotalPrice float64   `db:"total_price" json:"total_price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID       int64   `db:"id" json:"-"`
	OrderID  int64   `db:"order_id" json:"-"`
	ItemID   int64   `db:"item_id" json:"-"`
	Quantity int     `db:"quantity" json:"quantity"`
	Subtotal float64 `db:"subtotal" json:"subtotal"`
}

// OrderLine is an order line joined with its catalog item, as read back
// for serialization and event payloads.
type OrderLine struct {
	OrderID     int64   `db:"order_id" json:"-"`
	ItemUUID    string  `db:"item_uuid" json:"item_uuid"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// AddressView is the wire form of an address, including the owner's name.
type AddressView struct {
	UUID          string `json:"uuid"`
	UserFirstName string `json:"user_first_name"`
	UserLastName  string `json:"user_last_name"`
	Country       string `json:"country"`
	City          string `json:"city"`
	PostCode      string `json:"post_code"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
}

// FavoriteView is the wire form of a favorite with its item embedded.
type FavoriteView struct {
	UUID      string    `json:"uuid"`
	UserUUID  string    `json:"user_uuid"`
	Item      Item      `json:"item"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderView is the wire form of an order. Items are included on the
// endpoints that return the full order.
type OrderView struct {
	UUID            string      `json:"uuid"`
	Date            time.Time   `json:"date"`
	TotalPrice      float64     `json:"total_price"`
	DeliveryAddress AddressView `json:"delivery_address"`
	UserUUID        string      `json:"user_uuid"`
	Items           []OrderLine `json:"items,omitempty"`
}

// View builds the address wire form given the owning user.
func (a *Address) View(owner *User) AddressView {
	return AddressView{
		UUID:          a.UUID,
		UserFirstName: owner.FirstName,
		UserLastName:  owner.LastName,
		Country:       a.Country,
		City:          a.City,
		PostCode:      a.PostCode,
		Address:       a.Address,
		Phone:         a.Phone,
	}
}

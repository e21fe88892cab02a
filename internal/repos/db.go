package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (catalog/coupons/recipes)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  origin TEXT,
  images_json TEXT,
  tags_json TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Variants (one product, many sizes)
CREATE TABLE IF NOT EXISTS variants(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  sale_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
);
CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  author TEXT NOT NULL,
  rating NUMERIC NOT NULL,
  comment TEXT,
  verified_purchase INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

-- Coupons (admin owned)
CREATE TABLE IF NOT EXISTS coupons(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  discount_type TEXT NOT NULL CHECK (discount_type IN ('percentage','fixed')),
  discount_value NUMERIC NOT NULL CHECK (discount_value >= 0),
  min_order_value NUMERIC NOT NULL DEFAULT 0,
  max_uses INTEGER NOT NULL DEFAULT 0,
  used_count INTEGER NOT NULL DEFAULT 0,
  valid_from TEXT NOT NULL,
  valid_until TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code ON coupons(UPPER(code));

-- Carts: one per session, lines keyed by (product, variant)
CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  promo_code TEXT,
  discount NUMERIC NOT NULL DEFAULT 0,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  session_id   TEXT NOT NULL REFERENCES carts(session_id) ON DELETE CASCADE,
  product_id   TEXT NOT NULL,
  variant_id   TEXT NOT NULL,
  name         TEXT NOT NULL,
  variant_name TEXT NOT NULL,
  image        TEXT,
  unit_price   NUMERIC NOT NULL,
  stock        INTEGER NOT NULL,
  qty          INTEGER NOT NULL CHECK (qty >= 1),
  position     INTEGER NOT NULL,
  PRIMARY KEY (session_id, product_id, variant_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  pincode TEXT,
  customer_name TEXT,
  customer_email TEXT,
  subtotal NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  shipping NUMERIC NOT NULL DEFAULT 0,
  tax NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  promo_code TEXT,
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id     TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id   TEXT NOT NULL,
  variant_id   TEXT NOT NULL,
  name         TEXT NOT NULL,
  variant_name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id, variant_id)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlists(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  created_at  TEXT,
  PRIMARY KEY (wishlist_id, product_id)
);

-- Viewing history: most recent first, capped per session
CREATE TABLE IF NOT EXISTS viewing_history(
  session_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  viewed_at  TEXT NOT NULL,
  PRIMARY KEY (session_id, product_id)
);

-- Recipes
CREATE TABLE IF NOT EXISTS recipes(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  prep_time TEXT,
  cook_time TEXT,
  serves INTEGER,
  image_url TEXT,
  ingredients_json TEXT,
  instructions_json TEXT
);

CREATE TABLE IF NOT EXISTS recipe_products(
  recipe_id  TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  PRIMARY KEY (recipe_id, product_id)
);

-- Subscriptions
CREATE TABLE IF NOT EXISTS subscriptions(
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  started_at TEXT NOT NULL,
  next_billing_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_session ON subscriptions(session_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog/coupons/recipes")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('spices','Spices'),
	  ('nuts','Nuts & Dry Fruits'),
	  ('tea','Teas'),
	  ('blends','Masala Blends')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,origin,images_json,tags_json) VALUES
	  ('saffron-001','spices','Himalayan Saffron','Hand-picked Grade A Mongra saffron from the valleys of Kashmir. Deep red color, strong aroma.','Kashmir, India','["products/saffron-001/main.jpg"]','["Premium","Aromatic"]'),
	  ('pepper-001','spices','Malabar Black Pepper','Bold Tellicherry peppercorns from the Malabar Coast. Sun-dried and hand-sorted.','Kerala, India','["products/pepper-001/main.jpg"]','["Single-Origin"]'),
	  ('chili-001','spices','Chili Powder','Fiery Guntur chili, stone-ground to a fine powder.','Andhra Pradesh, India','["products/chili-001/main.jpg"]','["Hot","Single-Origin"]'),
	  ('turmeric-001','spices','Organic Turmeric Powder','High-curcumin turmeric from certified organic farms.','Andhra Pradesh, India','["products/turmeric-001/main.jpg"]','["Organic","Gluten-Free"]'),
	  ('almonds-001','nuts','Kashmiri Almonds','Sweet Mamra almonds, smaller but richer than Californian.','Kashmir, India','["products/almonds-001/main.jpg"]','["Premium","Gluten-Free"]'),
	  ('garam-001','blends','Garam Masala','House blend of ten whole spices, roasted and ground in small batches.','Tattva kitchen','["products/garam-001/main.jpg"]','["Aromatic","Blend"]'),
	  ('tea-001','tea','Darjeeling First Flush','Delicate spring-harvest black tea from high-altitude estates.','Darjeeling, India','["products/tea-001/main.jpg"]','["Premium","Single-Origin"]')`)

	tx.MustExec(`INSERT INTO variants(id,product_id,name,price,sale_price,stock) VALUES
	  ('saffron-001-1g','saffron-001','1g',1599,1299,15),
	  ('saffron-001-5g','saffron-001','5g',6599,NULL,8),
	  ('pepper-001-250g','pepper-001','250g',899,NULL,30),
	  ('chili-001-200g','chili-001','200g',499,NULL,25),
	  ('turmeric-001-200g','turmeric-001','200g',699,NULL,5),
	  ('almonds-001-500g','almonds-001','500g',2250,NULL,20),
	  ('almonds-001-1kg','almonds-001','1kg',4000,3600,10),
	  ('garam-001-100g','garam-001','100g',349,NULL,40),
	  ('tea-001-100g','tea-001','100g',1250,NULL,12)`)

	tx.MustExec(`INSERT INTO reviews(id,product_id,author,rating,comment,verified_purchase) VALUES
	  ('rev-1','saffron-001','Priya K.',5,'Absolutely divine! The aroma filled my kitchen.',1),
	  ('rev-2','saffron-001','Raj S.',5,'Top quality product. Worth every penny.',1),
	  ('rev-3','pepper-001','Chef Maria',5,'As a chef, I can tell the difference.',0),
	  ('rev-4','turmeric-001','John D.',5,'Color and smell so much richer than store-bought.',1),
	  ('rev-5','turmeric-001','Emily R.',4,'Makes a wonderful turmeric latte.',1),
	  ('rev-6','almonds-001','Anjali P.',5,'So delicious and crunchy.',1),
	  ('rev-7','garam-001','Vikram N.',4,'Balanced heat, great in dal.',1)`)

	tx.MustExec(`INSERT INTO coupons(id,code,discount_type,discount_value,min_order_value,max_uses,used_count,valid_from,valid_until,active) VALUES
	  ('cpn-1','SAVE10','percentage',10,100,500,0,'2025-01-01T00:00:00Z','2027-01-01T00:00:00Z',1),
	  ('cpn-2','WELCOME50','fixed',50,300,1000,0,'2025-01-01T00:00:00Z','2027-01-01T00:00:00Z',1),
	  ('cpn-3','FESTIVE20','percentage',20,1000,200,0,'2025-10-01T00:00:00Z','2025-11-15T00:00:00Z',1)`)

	tx.MustExec(`INSERT INTO recipes(id,title,description,prep_time,cook_time,serves,image_url,ingredients_json,instructions_json) VALUES
	  ('biryani','Classic Chicken Biryani','Aromatic one-pot meal with saffron-infused rice and tender chicken.','20 mins','40 mins',4,'recipes/biryani.jpg',
	   '["500g Chicken","2 cups Basmati Rice","1 pinch Himalayan Saffron","2 tbsp Garam Masala","1 cup Yogurt"]',
	   '["Marinate chicken with yogurt and spices.","Par-boil the rice with saffron.","Layer chicken and rice.","Cook on low heat for 30-40 minutes."]'),
	  ('pepper-prawns','Spicy Malabar Pepper Prawns','Quick fiery appetizer with freshly ground black pepper.','15 mins','10 mins',2,'recipes/pepper-prawns.jpg',
	   '["250g Prawns","2 tbsp Malabar Black Pepper","1 tsp Turmeric Powder","Curry leaves","Coconut oil"]',
	   '["Marinate prawns with turmeric and salt.","Saute curry leaves in coconut oil.","Cook prawns until pink.","Toss with coarse pepper."]'),
	  ('turmeric-latte','Creamy Turmeric Latte','Golden milk with a pinch of pepper for absorption.','5 mins','5 mins',1,'recipes/turmeric-latte.jpg',
	   '["1 cup Milk","1 tsp Turmeric Powder","1 pinch Black Pepper","Honey to taste"]',
	   '["Warm the milk.","Whisk in turmeric and pepper.","Sweeten with honey."]')`)

	tx.MustExec(`INSERT INTO recipe_products(recipe_id,product_id) VALUES
	  ('biryani','saffron-001'),
	  ('biryani','garam-001'),
	  ('pepper-prawns','pepper-001'),
	  ('pepper-prawns','turmeric-001'),
	  ('turmeric-latte','turmeric-001'),
	  ('turmeric-latte','pepper-001')`)

	return tx.Commit()
}

// seedUsers ensures demo USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-priya", "priya@tattva.test", "Priya", "USER", "Passw0rd!"),
		mk("u-raj", "raj@tattva.test", "Raj", "USER", "Passw0rd!"),
		mk("u-admin", "admin@tattva.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

package database

import "fmt"

// Color and size stock live in their own tables, one counter per row.
// There is deliberately no joint (color, size) table: availability for a
// pair is derived as the minimum of the two counters.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
	    id VARCHAR(36) PRIMARY KEY,
	    name VARCHAR(255) NOT NULL,
	    description TEXT,
	    category VARCHAR(100) NOT NULL,
	    price DECIMAL(10,2) NOT NULL,
	    image VARCHAR(512),
	    total_stock INT NOT NULL DEFAULT 0,
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    INDEX idx_category (category),
	    INDEX idx_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product_colors (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    product_id VARCHAR(36) NOT NULL,
	    name VARCHAR(100) NOT NULL,
	    code VARCHAR(16) NOT NULL,
	    stock INT NOT NULL DEFAULT 0,
	    position INT NOT NULL DEFAULT 0,
	    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
	    UNIQUE KEY uk_product_color (product_id, name),
	    INDEX idx_product_id (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product_sizes (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    product_id VARCHAR(36) NOT NULL,
	    label VARCHAR(32) NOT NULL,
	    stock INT NOT NULL DEFAULT 0,
	    position INT NOT NULL DEFAULT 0,
	    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
	    UNIQUE KEY uk_product_size (product_id, label),
	    INDEX idx_product_id (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    id VARCHAR(36) PRIMARY KEY,
	    customer_id VARCHAR(36) NOT NULL,
	    status ENUM('pending', 'confirmed', 'shipped', 'delivered', 'cancelled') DEFAULT 'pending',
	    payment_method VARCHAR(50) NOT NULL DEFAULT '',
	    payment_status VARCHAR(50) NOT NULL DEFAULT 'unpaid',
	    total_price DECIMAL(10,2) NOT NULL,
	    notes TEXT,
	    street VARCHAR(255) NOT NULL DEFAULT '',
	    city VARCHAR(100) NOT NULL DEFAULT '',
	    postal_code VARCHAR(20) NOT NULL DEFAULT '',
	    country VARCHAR(100) NOT NULL DEFAULT '',
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    INDEX idx_customer_id (customer_id),
	    INDEX idx_status (status),
	    INDEX idx_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    order_id VARCHAR(36) NOT NULL,
	    name VARCHAR(255) NOT NULL,
	    size VARCHAR(32) NOT NULL,
	    color VARCHAR(100) NOT NULL,
	    quantity INT NOT NULL,
	    unit_price DECIMAL(10,2) NOT NULL,
	    FOREIGN KEY (order_id) REFERENCES orders(id),
	    INDEX idx_order_id (order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// SetupSchema creates the storefront tables
func (db *DB) SetupSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

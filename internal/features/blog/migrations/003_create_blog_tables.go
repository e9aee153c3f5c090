package migrations

import "medialog/internal/core"

// Migration003CreateBlogTables creates the blog posts table
var Migration003CreateBlogTables = core.Migration{
	Version:     3,
	Name:        "create_blog_tables",
	Description: "Create blog posts",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS blog_posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT,
			published BOOLEAN NOT NULL DEFAULT 0,
			published_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts(published, published_at);
		CREATE INDEX IF NOT EXISTS idx_blog_posts_user ON blog_posts(user_id);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_blog_posts_user;
		DROP INDEX IF EXISTS idx_blog_posts_published;
		DROP TABLE IF EXISTS blog_posts;
	`,
}
